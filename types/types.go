package types

import (
	"database/sql/driver"
	"encoding/binary"
	"errors"

	fasthex "github.com/tmthrgd/go-hex"
	"lukechampine.com/uint128"
)

// ChecksumSize The size of an MD5 checksum in bytes.
const ChecksumSize = 16

//nolint:recvcheck
type Checksum [ChecksumSize]byte

var ZeroChecksum Checksum

func (h Checksum) MarshalJSON() ([]byte, error) {
	var buf [ChecksumSize*2 + 2]byte
	buf[0] = '"'
	buf[ChecksumSize*2+1] = '"'
	fasthex.Encode(buf[1:], h[:])
	return buf[:], nil
}

func MustBytes16FromString[T ~[16]byte](s string) T {
	if h, err := Bytes16FromString[T](s); err != nil {
		panic(err)
	} else {
		return h
	}
}

func Bytes16FromString[T ~[16]byte](s string) (T, error) {
	var h T
	if buf, err := fasthex.DecodeString(s); err != nil {
		return h, err
	} else {
		if len(buf) != ChecksumSize {
			return h, errors.New("wrong size")
		}
		copy(h[:], buf)
		return h, nil
	}
}

func MustChecksumFromString(s string) Checksum {
	return MustBytes16FromString[Checksum](s)
}

func ChecksumFromString(s string) (Checksum, error) {
	return Bytes16FromString[Checksum](s)
}

func ChecksumFromBytes(buf []byte) (h Checksum) {
	if len(buf) != ChecksumSize {
		return
	}
	copy(h[:], buf)
	return
}

// Uint128 The checksum as a single 128-bit integer, low word first as emitted on the wire
func (h Checksum) Uint128() uint128.Uint128 {
	return uint128.New(binary.LittleEndian.Uint64(h[:8]), binary.LittleEndian.Uint64(h[8:]))
}

// Compare little-endian 128-bit integer comparison
func (h Checksum) Compare(other Checksum) int {
	return h.Uint128().Cmp(other.Uint128())
}

func (h Checksum) Slice() []byte {
	return h[:]
}

func (h Checksum) String() string {
	return fasthex.EncodeToString(h[:])
}

func (h Checksum) Uint64() uint64 {
	return binary.LittleEndian.Uint64(h[:])
}

func (h *Checksum) Scan(src any) error {
	if src == nil {
		return nil
	} else if buf, ok := src.([]byte); ok {
		if len(buf) == 0 {
			return nil
		}
		if len(buf) != ChecksumSize {
			return errors.New("invalid checksum size")
		}
		copy((*h)[:], buf)

		return nil
	}
	return errors.New("invalid type")
}

func (h *Checksum) Value() (driver.Value, error) {
	if *h == ZeroChecksum {
		return nil, nil //nolint:nilnil
	}
	return (*h)[:], nil
}

func (h *Checksum) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || len(b) == 2 {
		return nil
	}

	if len(b) != ChecksumSize*2+2 {
		return errors.New("wrong checksum size")
	}

	if _, err := fasthex.Decode(h[:], b[1:len(b)-1]); err != nil {
		return err
	}

	return nil
}

//nolint:recvcheck
type Bytes []byte

func (b Bytes) MarshalJSON() ([]byte, error) {
	buf := make([]byte, len(b)*2+2)
	buf[0] = '"'
	buf[len(buf)-1] = '"'
	fasthex.Encode(buf[1:], b)
	return buf, nil
}

func (b Bytes) String() string {
	return fasthex.EncodeToString(b)
}

func (b *Bytes) UnmarshalJSON(buf []byte) error {
	if len(buf) < 2 || (len(buf)%2) != 0 || buf[0] != '"' || buf[len(buf)-1] != '"' {
		return errors.New("invalid bytes")
	}

	*b = make(Bytes, (len(buf)-2)/2)

	if _, err := fasthex.Decode(*b, buf[1:len(buf)-1]); err != nil {
		return err
	}

	return nil
}
