// Package httpauth implements the client side of HTTP Digest access
// authentication (RFC 2617) over the MD5 engine in this module.
package httpauth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/streamsum/digest/md5"
	"github.com/streamsum/digest/utils"
	hex "github.com/tmthrgd/go-hex"
)

const qopAuth = "auth"

var ErrUnsupportedQOP = errors.New("unsupported QOP")
var ErrUnsupportedAlgorithm = errors.New("unsupported digest algorithm")

// Challenge the parameters of a WWW-Authenticate: Digest header.
type Challenge struct {
	QOP       string
	Algorithm string
	Realm     string
	Nonce     string
	Opaque    string
	Stale     string
}

// supported only MD5 and MD5-sess, the spec default
func (c *Challenge) supported() bool {
	return c.Algorithm == "" || strings.HasPrefix(c.Algorithm, "MD5")
}

// sum hashes the colon-joined entries and returns the lowercase hex digest,
// the building block of every RFC 2617 quantity
func (c *Challenge) sum(data ...[]byte) []byte {
	d := md5.GetDigest()
	for i, b := range data {
		if i > 0 {
			_, _ = d.Write([]byte{':'})
		}
		_, _ = utils.WriteNoEscape(d, b)
	}
	cksum := d.Checksum()
	md5.PutDigest(d)

	dst := make([]byte, md5.Size*2)
	hex.Encode(dst, cksum[:])
	return dst
}

// Authorize computes the Authorization header value for the given request
// and credentials. requestCounter starts at 1 and increments for every
// request reusing the same nonce.
func (c *Challenge) Authorize(method, uri, user, password string, requestCounter uint32, clientNonce string) (string, error) {
	if !c.supported() {
		return "", ErrUnsupportedAlgorithm
	}

	ha1 := c.sum([]byte(user), []byte(c.Realm), []byte(password))

	if strings.HasSuffix(c.Algorithm, "-sess") {
		ha1 = c.sum(ha1, []byte(c.Nonce), []byte(clientNonce))
	}

	var ha2, response []byte
	if len(c.QOP) == 0 || c.QOP == qopAuth {
		ha2 = c.sum([]byte(method), []byte(uri))
	} else {
		return "", ErrUnsupportedQOP
	}

	var nc [8]byte
	binary.BigEndian.PutUint32(nc[4:], requestCounter)
	hex.Encode(nc[:], nc[4:])

	if len(c.QOP) == 0 {
		response = c.sum(ha1, []byte(c.Nonce), ha2)
	} else if c.QOP == qopAuth {
		response = c.sum(ha1, []byte(c.Nonce), nc[:], []byte(clientNonce), []byte(c.QOP), ha2)
	} else {
		return "", ErrUnsupportedQOP
	}

	var elements []string
	elements = append(elements, fmt.Sprintf("Digest username=%q,realm=%q,nonce=%q,uri=%q", user, c.Realm, c.Nonce, uri))
	if c.QOP != "" {
		elements = append(elements, "qop="+c.QOP)
	}
	elements = append(elements, "nc="+string(nc[:]))
	if c.QOP == qopAuth || strings.HasSuffix(c.Algorithm, "-sess") {
		elements = append(elements, fmt.Sprintf("cnonce=%q", clientNonce))
	}
	elements = append(elements, fmt.Sprintf("response=%q", response))
	if c.Algorithm != "" {
		elements = append(elements, "algorithm="+c.Algorithm)
	}
	if c.Opaque != "" {
		elements = append(elements, fmt.Sprintf("opaque=%q", c.Opaque))
	}

	return strings.Join(elements, ","), nil
}

func (c *Challenge) set(k, v string) bool {
	switch k {
	case "qop":
		c.QOP = v
	case "algorithm":
		c.Algorithm = v
	case "realm":
		c.Realm = v
	case "nonce":
		c.Nonce = v
	case "opaque":
		c.Opaque = v
	case "stale":
		c.Stale = v
	default:
		utils.Debugf("httpauth", "unknown challenge parameter %q", k)
		return false
	}
	return true
}

// ParseChallenge parses a WWW-Authenticate header value. Returns nil if the
// header is not a well-formed Digest challenge.
func ParseChallenge(str string) *Challenge {
	const prefix = "Digest "
	if !strings.HasPrefix(str, prefix) {
		return nil
	}

	c := new(Challenge)

	const (
		keyOrEqual = iota
		quoteOrValue
		valueOrCommaOrEnd
		valueOrQuote
		commaOrEnd
	)

	state := keyOrEqual
	j := len(prefix)

	var key string

	for i := len(prefix); i < len(str); i++ {
		b := str[i]
		switch state {
		case keyOrEqual:
			if b == '=' {
				key = str[j:i]
				state = quoteOrValue
				j = i + 1
			}
		case quoteOrValue:
			if b == '"' {
				state = valueOrQuote
				j = i + 1
			} else {
				state = valueOrCommaOrEnd
			}
		case valueOrCommaOrEnd:
			if b == ',' {
				if !c.set(key, str[j:i]) {
					return nil
				}
				state = keyOrEqual
				j = i + 1
			}
		case valueOrQuote:
			if b == '"' {
				if !c.set(key, str[j:i]) {
					return nil
				}
				state = commaOrEnd
				j = i + 1
			}
		case commaOrEnd:
			if b != ',' {
				return nil
			} else {
				state = keyOrEqual
				j = i + 1
			}
		}
	}

	if state == valueOrCommaOrEnd {
		if !c.set(key, str[j:]) {
			return nil
		}
		return c
	} else if state == commaOrEnd {
		return c
	} else {
		return nil
	}
}
