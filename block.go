package srr

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// blockSize is the number of input bytes compressed per block record.
const blockSize = 100 * 1024

// mixerRate is the learning rate of the per-block mixer.
const mixerRate = 0.001

// The container is a little-endian uint64 holding the total original byte
// count, followed by one record per block: blockLen, primary, rleCount and
// compSize as little-endian uint32, then compSize payload bytes. Records
// are read until end of file.

// newModels constructs the model ensemble. The encoder and decoder must
// build identical ensembles in identical order or their coders diverge.
func newModels() []model {
	return []model{
		newByteContextModel(1),
		newByteContextModel(2),
		newByteContextModel(3),
		newByteContextModel(4),
		newBitContextModel(24),
		newMatchModel(4),
		newMatchModel(8),
		newLZPModel(),
	}
}

// Encode compresses data and writes the complete container to w.
func Encode(w io.Writer, data []byte) error {
	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64(len(data)))
	if _, err := w.Write(hdr[:]); err != nil {
		return errors.Wrap(err, "stream header")
	}
	for off := 0; off < len(data); off += blockSize {
		end := off + blockSize
		if end > len(data) {
			end = len(data)
		}
		if err := encodeBlock(w, data[off:end]); err != nil {
			return err
		}
	}
	return nil
}

func encodeBlock(w io.Writer, block []byte) error {
	last, primary := bwtTransform(block)
	rle := rle0Encode(mtfEncode(last))

	models := newModels()
	mix := newMixer(models, mixerRate)
	var payload bytes.Buffer
	enc := newRangeEncoder(&payload)
	for _, c := range rle {
		for i := 7; i >= 0; i-- {
			bit := int(c>>i) & 1
			p1 := mix.mix()
			enc.encode(bit, p1)
			mix.update(p1, bit)
			for _, m := range models {
				m.updateBit(bit)
			}
		}
		for _, m := range models {
			m.updateByte(c)
		}
	}
	enc.finish()

	var hdr [16]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(len(block)))
	binary.LittleEndian.PutUint32(hdr[4:], primary)
	binary.LittleEndian.PutUint32(hdr[8:], uint32(len(rle)))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(payload.Len()))
	if _, err := w.Write(hdr[:]); err != nil {
		return errors.Wrap(err, "block header")
	}
	_, err := w.Write(payload.Bytes())
	return errors.Wrap(err, "block payload")
}

// Decode reads a complete container from r and writes the reconstructed
// bytes to w.
func Decode(w io.Writer, r io.Reader) error {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return errors.Wrap(err, "stream header")
	}
	fullSize := binary.LittleEndian.Uint64(hdr[:])

	var total uint64
	for {
		var bh [16]byte
		if _, err := io.ReadFull(r, bh[:]); err != nil {
			if err == io.EOF {
				break
			}
			return errors.Wrap(err, "block header")
		}
		blockLen := binary.LittleEndian.Uint32(bh[0:])
		primary := binary.LittleEndian.Uint32(bh[4:])
		rleCount := binary.LittleEndian.Uint32(bh[8:])
		compSize := binary.LittleEndian.Uint32(bh[12:])
		payload := make([]byte, compSize)
		if _, err := io.ReadFull(r, payload); err != nil {
			return errors.Wrap(err, "block payload")
		}
		block, err := decodeBlock(payload, blockLen, primary, rleCount)
		if err != nil {
			return err
		}
		if _, err := w.Write(block); err != nil {
			return errors.Wrap(err, "write block")
		}
		total += uint64(len(block))
	}
	if total != fullSize {
		return errors.Errorf("corrupt container: decoded %d bytes, stream header says %d", total, fullSize)
	}
	return nil
}

func decodeBlock(payload []byte, blockLen, primary, rleCount uint32) ([]byte, error) {
	models := newModels()
	mix := newMixer(models, mixerRate)
	dec := newRangeDecoder(bytes.NewReader(payload))
	rle := make([]byte, 0, rleCount)
	for i := uint32(0); i < rleCount; i++ {
		var c byte
		for j := 7; j >= 0; j-- {
			p1 := mix.mix()
			bit := dec.decode(p1)
			mix.update(p1, bit)
			for _, m := range models {
				m.updateBit(bit)
			}
			c |= byte(bit) << j
		}
		rle = append(rle, c)
		for _, m := range models {
			m.updateByte(c)
		}
	}

	bwt := mtfDecode(rle0Decode(rle))
	if int(primary) >= len(bwt) && len(bwt) > 0 {
		return nil, errors.Errorf("corrupt block: primary %d out of range for block of %d", primary, len(bwt))
	}
	block := bwtInverse(bwt, primary)
	if uint32(len(block)) < blockLen {
		return nil, errors.Errorf("corrupt block: %d bytes decoded, block header says %d", len(block), blockLen)
	}
	return block[:blockLen], nil
}
