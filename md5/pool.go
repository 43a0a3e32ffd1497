package md5

import "sync"

var digestPool sync.Pool

//nolint:gochecknoinits
func init() {
	digestPool.New = func() any {
		return New()
	}
}

// GetDigest returns a reset Digest from the shared pool.
func GetDigest() *Digest {
	//nolint:forcetypeassert
	d := digestPool.Get().(*Digest)
	d.Reset()
	return d
}

func PutDigest(d *Digest) {
	digestPool.Put(d)
}
