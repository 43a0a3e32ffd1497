package md5

import (
	"github.com/streamsum/digest/types"
	"github.com/streamsum/digest/utils"
)

// Checksum one-shot checksum of data
func Checksum[T ~string | ~[]byte](data T) (result types.Checksum) {
	d := GetDigest()
	_, _ = utils.WriteNoEscape(d, []byte(data))
	result = d.Checksum()
	PutDigest(d)
	return
}

// ChecksumVar checksum of the concatenation of all data entries
func ChecksumVar[T ~string | ~[]byte](data ...T) (result types.Checksum) {
	d := GetDigest()
	for _, b := range data {
		_, _ = utils.WriteNoEscape(d, []byte(b))
	}
	result = d.Checksum()
	PutDigest(d)
	return
}
