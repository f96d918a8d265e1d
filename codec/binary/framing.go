// Package binary implements a compact wire codec: fixed-width
// host-order primitives, u64 length-prefixed strings, a raw memcopy
// fast path for contiguous arithmetic sequences, and no on-wire bytes
// for scope brackets.
//
// The format carries a small additive header (2-byte magic, 1-byte
// version); decoding validates it before anything else. Host byte
// order only: the format is not portable across machines of differing
// endianness, which streaming over the network was never meant to need.
package binary

import (
	"encoding/binary"
	"io"

	"github.com/joshuapare/zen/errs"
)

// magic and version identify the stream header, letting a decoder
// reject a foreign or future-versioned stream up front instead of
// misreading it as a malformed payload.
var magic = [2]byte{0x5A, 0x4E} // "ZN"

const formatVersion byte = 1

// writeHeader writes the 3-byte header ahead of the root value.
func writeHeader(w io.Writer) error {
	var buf [3]byte
	buf[0], buf[1] = magic[0], magic[1]
	buf[2] = formatVersion
	n, err := w.Write(buf[:])
	if err != nil {
		return err
	}
	if n != len(buf) {
		return errs.ErrShortWrite
	}
	return nil
}

// readHeader validates the 3-byte header at the start of a stream.
func readHeader(r io.Reader) error {
	var buf [3]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return errs.ErrShortRead
	}
	if buf[0] != magic[0] || buf[1] != magic[1] {
		return errs.ErrBadMagic
	}
	if buf[2] != formatVersion {
		return errs.ErrUnsupportedVersion
	}
	return nil
}

// putUint64 writes v in host byte order.
func putUint64(b []byte, v uint64) { binary.NativeEndian.PutUint64(b, v) }

// readUint64 reads a host-byte-order uint64.
func readUint64(b []byte) uint64 { return binary.NativeEndian.Uint64(b) }

// writeFull writes the whole buffer or reports a short write.
func writeFull(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return errs.ErrShortWrite
	}
	return nil
}

// readFull reads exactly len(b) bytes or reports a short read.
func readFull(r io.Reader, b []byte) error {
	if _, err := io.ReadFull(r, b); err != nil {
		return errs.ErrShortRead
	}
	return nil
}
