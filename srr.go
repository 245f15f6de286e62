// Package srr implements a lossless block compressor for byte streams.
// Each block is permuted by the Burrows-Wheeler Transform, rank coded with
// move-to-front, run-length coded over zeros, and finally coded bit by bit
// with a binary range coder driven by a logistic mixture of context models.
//
// Below is an example of compressing a file and restoring it:
//
//	go run ./cmd/srr compress notes.txt
//	go run ./cmd/srr decompress notes.txt.srr
//
// References:
// M. Burrows and D.J. Wheeler, A Block-sorting Lossless Data Compression Algorithm, Digital SRC Research Report 124, 1994.
// I.H. Witten, R.M. Neal and J.G. Cleary, Arithmetic Coding for Data Compression, Communications of the ACM 30 (6), 1987.
// M.V. Mahoney, Adaptive Weighing of Context Models for Lossless Data Compression, Florida Institute of Technology, CS-2005-16, 2005.
package srr

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
)

var (
	// ErrOutputExists is returned by Compress when the destination file
	// already exists. Compress never overwrites.
	ErrOutputExists = errors.New("output already exists")

	// ErrInputMissing is returned by Decompress when the source file does
	// not exist.
	ErrInputMissing = errors.New("input missing")
)

// Compress reads the whole file at inPath and writes its compressed
// container to outPath. It fails if outPath already exists.
func Compress(inPath, outPath string) error {
	if _, err := os.Stat(outPath); err == nil {
		return errors.Wrap(ErrOutputExists, outPath)
	}
	data, err := os.ReadFile(inPath)
	if err != nil {
		return errors.Wrap(err, "cannot open input")
	}
	f, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "cannot open output")
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := Encode(w, data); err != nil {
		return err
	}
	return errors.Wrap(w.Flush(), "flush output")
}

// Decompress reads a compressed container from inPath and writes the
// reconstructed bytes to outPath.
func Decompress(inPath, outPath string) error {
	if _, err := os.Stat(inPath); os.IsNotExist(err) {
		return errors.Wrap(ErrInputMissing, inPath)
	}
	f, err := os.Open(inPath)
	if err != nil {
		return errors.Wrap(err, "cannot open input")
	}
	defer f.Close()
	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "cannot open output")
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	if err := Decode(w, bufio.NewReader(f)); err != nil {
		return err
	}
	return errors.Wrap(w.Flush(), "flush output")
}
