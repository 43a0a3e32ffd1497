package httpauth_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sclevine/spec"
	"github.com/streamsum/digest/httpauth"
)

func assertEqual(t *testing.T, actual, expected any, msgAndArgs ...any) {
	if actual != expected {
		message := ""
		if len(msgAndArgs) > 0 {
			message = fmt.Sprint(msgAndArgs...) + ": "
		}
		t.Errorf("%sactual: %v expected: %v", message, actual, expected)
	}
}

func TestParseChallenge(t *testing.T) {
	spec.Run(t, "ParseChallenge", func(t *testing.T, when spec.G, it spec.S) {
		it("fails w/o the Digest prefix", func() {
			if httpauth.ParseChallenge("Basic realm=\"host\"") != nil {
				t.Errorf("expected nil challenge")
			}
		})

		it("fails w/ unknown parameter", func() {
			if httpauth.ParseChallenge("Digest realm=\"host\",domain=\"/\"") != nil {
				t.Errorf("expected nil challenge")
			}
		})

		it("fails w/ unterminated quote", func() {
			if httpauth.ParseChallenge("Digest realm=\"host") != nil {
				t.Errorf("expected nil challenge")
			}
		})

		it("parses quoted and bare values", func() {
			c := httpauth.ParseChallenge("Digest qop=\"auth\",algorithm=MD5,realm=\"r\",nonce=\"n\",stale=false")
			if c == nil {
				t.Fatal("nil challenge")
			}
			assertEqual(t, c.QOP, "auth")
			assertEqual(t, c.Algorithm, "MD5")
			assertEqual(t, c.Realm, "r")
			assertEqual(t, c.Nonce, "n")
			assertEqual(t, c.Stale, "false")
		})
	})
}

// RFC 2617 3.5 example
func TestAuthorizeRFC(t *testing.T) {
	c := httpauth.ParseChallenge("Digest realm=\"testrealm@host.com\",qop=\"auth\",nonce=\"dcd98b7102dd2f0e8b11d0f600bfb0c093\",opaque=\"5ccc069c403ebaf9f0171e9517f40e41\"")
	if c == nil {
		t.Fatal("nil challenge")
	}

	hdr, err := c.Authorize("GET", "/dir/index.html", "Mufasa", "Circle Of Life", 1, "0a4f113b")
	if err != nil {
		t.Fatal(err)
	}

	const expected = "Digest username=\"Mufasa\",realm=\"testrealm@host.com\",nonce=\"dcd98b7102dd2f0e8b11d0f600bfb0c093\",uri=\"/dir/index.html\",qop=auth,nc=00000001,cnonce=\"0a4f113b\",response=\"6629fae49393a05397450978507c4ef1\",opaque=\"5ccc069c403ebaf9f0171e9517f40e41\""
	if hdr != expected {
		t.Logf("expected %s", expected)
		t.Logf("received %s", hdr)
		t.Fatal()
	}
}

func TestAuthorizeSession(t *testing.T) {
	c := httpauth.ParseChallenge("Digest qop=\"auth\",algorithm=MD5-sess,realm=\"api@streamsum.test\",nonce=\"dcd98b7102dd2f0e8b11d0f600bfb0c093\",stale=false")
	if c == nil {
		t.Fatal("nil challenge")
	}

	hdr, err := c.Authorize("GET", "/v1/status", "observer", "hunter2", 1, "0a4f113b")
	if err != nil {
		t.Fatal(err)
	}

	const expected = "Digest username=\"observer\",realm=\"api@streamsum.test\",nonce=\"dcd98b7102dd2f0e8b11d0f600bfb0c093\",uri=\"/v1/status\",qop=auth,nc=00000001,cnonce=\"0a4f113b\",response=\"270d939b9eb8ced6cc42b59272589bdd\",algorithm=MD5-sess"
	if hdr != expected {
		t.Logf("expected %s", expected)
		t.Logf("received %s", hdr)
		t.Fatal()
	}
}

// legacy RFC 2069 form, no qop
func TestAuthorizeNoQOP(t *testing.T) {
	c := &httpauth.Challenge{
		Realm: "api@streamsum.test",
		Nonce: "dcd98b7102dd2f0e8b11d0f600bfb0c093",
	}

	hdr, err := c.Authorize("GET", "/v1/status", "observer", "hunter2", 1, "")
	if err != nil {
		t.Fatal(err)
	}

	const expected = "Digest username=\"observer\",realm=\"api@streamsum.test\",nonce=\"dcd98b7102dd2f0e8b11d0f600bfb0c093\",uri=\"/v1/status\",nc=00000001,response=\"65114c02285bf7e21fbaca7b8f4fc6a9\""
	if hdr != expected {
		t.Logf("expected %s", expected)
		t.Logf("received %s", hdr)
		t.Fatal()
	}
}

func TestAuthorizeUnsupported(t *testing.T) {
	c := &httpauth.Challenge{Realm: "r", Nonce: "n", QOP: "auth-int"}
	if _, err := c.Authorize("GET", "/", "u", "p", 1, "c"); !errors.Is(err, httpauth.ErrUnsupportedQOP) {
		t.Fatalf("expected ErrUnsupportedQOP, got %v", err)
	}

	c = &httpauth.Challenge{Realm: "r", Nonce: "n", Algorithm: "SHA-256"}
	if _, err := c.Authorize("GET", "/", "u", "p", 1, "c"); !errors.Is(err, httpauth.ErrUnsupportedAlgorithm) {
		t.Fatalf("expected ErrUnsupportedAlgorithm, got %v", err)
	}
}
