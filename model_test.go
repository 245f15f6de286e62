package srr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteContextModel(t *testing.T) {
	m := newByteContextModel(1)
	require.Equal(t, uint16(probHalf), m.predict(), "short history")

	m.updateByte('A')
	require.Equal(t, uint16(32767), m.predict(), "empty bucket")

	m.updateBit(1)
	// Counts are now (0, 1): (1+1)*0xFFFF/3.
	require.Equal(t, uint16(43690), m.predict())

	// All bits of a byte land in the same bucket as long as the byte
	// history does not change.
	m.updateBit(1)
	m.updateBit(1)
	require.Equal(t, uint16(52428), m.predict())

	// A different history byte selects a fresh bucket.
	m.updateByte('B')
	require.Equal(t, uint16(32767), m.predict())
}

func TestByteContextModelHistoryEviction(t *testing.T) {
	m := newByteContextModel(2)
	m.updateByte('x')
	require.Equal(t, uint16(probHalf), m.predict(), "history not yet full")
	m.updateByte('y')
	require.Equal(t, uint16(32767), m.predict())
	m.updateByte('z')
	require.Equal(t, []byte("yz"), m.history)
}

func TestBitContextModel(t *testing.T) {
	m := newBitContextModel(24)
	for i := 0; i < 24; i++ {
		require.Equal(t, uint16(probHalf), m.predict())
		m.updateBit(1)
	}
	// History is full but nothing has been counted yet.
	require.Equal(t, uint16(32767), m.predict())

	m.updateBit(1)
	require.Equal(t, uint32(0xFFFFFF), m.hist)
	require.Equal(t, uint16(43690), m.predict())

	m.updateBit(0)
	require.Equal(t, uint32(0xFFFFFE), m.hist)
	require.Equal(t, uint16(32767), m.predict(), "unseen context")
}

func TestMatchModelFindsMatch(t *testing.T) {
	m := newMatchModel(4)
	for _, b := range []byte("abcdabcda") {
		m.updateByte(b)
	}
	// The context is hashed exclusive of the byte just written, so the
	// repeat of "abcd" (buffer[4..7]) is only looked up while processing
	// the ninth byte, and resolves to position 4, the position recorded when
	// its first occurrence (buffer[0..3]) was hashed.
	require.Equal(t, 4, m.matchPos)
	require.Equal(t, 1, m.matchLen)

	// Predicted byte is buffer[5] = 'b' = 0x62, whose high bit is 0, at
	// confidence 256 for a length-1 match.
	require.Equal(t, uint16(32512), m.predict())

	// Eight coded bits advance the match by one byte.
	for i := 0; i < 8; i++ {
		m.updateBit(0)
	}
	require.Equal(t, 5, m.matchPos)
	require.Equal(t, 2, m.matchLen)
	require.Equal(t, uint16(31744), m.predict(), "buffer[7]='d', confidence 1024")
}

// Until contextSize bytes have been seen, the hash table is not touched and
// the match state stays cleared.
func TestMatchModelShortPrefix(t *testing.T) {
	m := newMatchModel(4)
	for _, b := range []byte("xyz") {
		m.updateByte(b)
	}
	require.Equal(t, -1, m.matchPos)
	require.Equal(t, 0, m.matchLen)
	require.Empty(t, m.lastPos)
	require.Equal(t, uint16(probHalf), m.predict())
}

func TestLZPModel(t *testing.T) {
	m := newLZPModel()
	require.Equal(t, uint16(probHalf), m.predict(), "empty chain")

	// Writing byte 2 at position 0 stores position 0 in chain slot
	// (0<<8)|2 = 2; once the cursor reaches slot 2 the stored position is
	// read back as a chain head and the byte after it drives the bias.
	m.updateByte(2)
	m.updateByte(7)
	require.Equal(t, uint16(16384), m.predict(), "buf[1]=7 has high bit clear")

	m2 := newLZPModel()
	m2.updateByte(2)
	m2.updateByte(0x90)
	require.Equal(t, uint16(49152), m2.predict(), "buf[1]=0x90 has high bit set")
}
