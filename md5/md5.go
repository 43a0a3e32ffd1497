// Package md5 implements the MD5 message-digest algorithm as defined in RFC 1321.
//
// MD5 is cryptographically broken and must not be used where collision
// resistance matters. It survives in wire formats and legacy protocols that
// need an interoperable 128-bit checksum, which is what this package is for.
package md5

import (
	"encoding/binary"
	"errors"
	"hash"

	"github.com/streamsum/digest/types"
)

// BlockSize The block size of the hash algorithm in bytes.
const BlockSize = 64

// Size The size of an MD5 checksum in bytes.
const Size = 16

// Initialization values.
var iv = [4]uint32{0x67452301, 0xefcdab89, 0x98badcfe, 0x10325476}

// Digest holds the partial evaluation of a checksum. The zero value is not
// usable, call Reset or obtain one via New.
type Digest struct {
	s   [4]uint32       // accumulators A, B, C, D
	x   [BlockSize]byte // buffer for data not yet compressed
	nx  int             // number of bytes in buffer, always < BlockSize
	len uint64          // total bytes absorbed, mod 2^64
}

var _ hash.Hash = (*Digest)(nil)

// Reset restores the initial accumulators and discards any buffered input.
// A finished Digest becomes usable again after Reset.
func (d *Digest) Reset() {
	d.s = iv
	d.nx = 0
	d.len = 0
}

// New returns a new Digest computing the MD5 checksum.
func New() *Digest {
	d := new(Digest)
	d.Reset()
	return d
}

func (d *Digest) Size() int { return Size }

func (d *Digest) BlockSize() int { return BlockSize }

// Write absorbs p. It never fails, and the final checksum does not depend
// on how the input was split across Write calls.
func (d *Digest) Write(p []byte) (nn int, err error) {
	nn = len(p)
	d.len += uint64(nn)
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize {
			block(d, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= BlockSize {
		n := len(p) &^ (BlockSize - 1)
		block(d, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return
}

// Sum appends the current checksum to in. Padding runs on a copy of the
// state, so the caller may keep writing and summing.
func (d *Digest) Sum(in []byte) []byte {
	d0 := *d
	sum := d0.checkSum()
	return append(in, sum[:]...)
}

// Checksum like Sum, without consuming the state nor allocating.
func (d *Digest) Checksum() types.Checksum {
	d0 := *d
	return types.Checksum(d0.checkSum())
}

func (d *Digest) checkSum() [Size]byte {
	// 0x80 end marker, zeros until 56 mod 64, then the bit length little-endian.
	// Underflow in the subtraction is fine, 64 divides 2^64.
	tmp := [1 + 63 + 8]byte{0x80}
	pad := (55 - d.len) % 64
	binary.LittleEndian.PutUint64(tmp[1+pad:], d.len<<3)
	_, _ = d.Write(tmp[:1+pad+8])

	if d.nx != 0 {
		panic("padding failed")
	}

	var sum [Size]byte
	binary.LittleEndian.PutUint32(sum[0:], d.s[0])
	binary.LittleEndian.PutUint32(sum[4:], d.s[1])
	binary.LittleEndian.PutUint32(sum[8:], d.s[2])
	binary.LittleEndian.PutUint32(sum[12:], d.s[3])
	return sum
}

// Sum returns the MD5 checksum of data.
func Sum(data []byte) [Size]byte {
	var d Digest
	d.Reset()
	_, _ = d.Write(data)
	return d.checkSum()
}

const (
	magic         = "md5\x01"
	marshaledSize = len(magic) + 4*4 + BlockSize + 8
)

// MarshalBinary encodes the intermediate state so a stream can be resumed later.
func (d *Digest) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, marshaledSize)
	b = append(b, magic...)
	b = binary.BigEndian.AppendUint32(b, d.s[0])
	b = binary.BigEndian.AppendUint32(b, d.s[1])
	b = binary.BigEndian.AppendUint32(b, d.s[2])
	b = binary.BigEndian.AppendUint32(b, d.s[3])
	b = append(b, d.x[:d.nx]...)
	b = b[:len(b)+len(d.x)-d.nx] // already zero
	b = binary.BigEndian.AppendUint64(b, d.len)
	return b, nil
}

func (d *Digest) UnmarshalBinary(b []byte) error {
	if len(b) < len(magic) || string(b[:len(magic)]) != magic {
		return errors.New("invalid state identifier")
	}
	if len(b) != marshaledSize {
		return errors.New("invalid state size")
	}
	b = b[len(magic):]
	d.s[0] = binary.BigEndian.Uint32(b)
	d.s[1] = binary.BigEndian.Uint32(b[4:])
	d.s[2] = binary.BigEndian.Uint32(b[8:])
	d.s[3] = binary.BigEndian.Uint32(b[12:])
	b = b[16:]
	b = b[copy(d.x[:], b[:BlockSize]):]
	d.len = binary.BigEndian.Uint64(b)
	d.nx = int(d.len % BlockSize)
	return nil
}
