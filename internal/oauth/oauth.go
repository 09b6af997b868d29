// Package oauth builds the X-PP-AUTHORIZATION header PayPal requires when a
// call is made on behalf of another account with a permissions token.
package oauth

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// HeaderName is the header that carries the signature.
const HeaderName = "X-PP-AUTHORIZATION"

// SignatureMethod is the only method PayPal accepts.
const SignatureMethod = "HMAC-SHA1"

// Credentials identify the API caller (consumer) and the third-party
// account that granted permission (token).
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	Token          string
	TokenSecret    string
}

// Signer signs requests. Now defaults to time.Now.
type Signer struct {
	Credentials Credentials
	Now         func() time.Time
}

// Sign returns the header value for a request of the given method to url.
func (s Signer) Sign(method, url string) string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return Sign(s.Credentials, method, url, now())
}

// Sign returns the X-PP-AUTHORIZATION header value, formatted as
// token=<token>,signature=<signature>,timestamp=<unix seconds>.
func Sign(c Credentials, method, url string, at time.Time) string {
	timestamp := strconv.FormatInt(at.Unix(), 10)
	signature := Signature(c, method, url, timestamp)
	return "token=" + c.Token + ",signature=" + signature + ",timestamp=" + timestamp
}

// Signature computes the base64 HMAC-SHA1 signature over the base string
//
//	METHOD&enc(url)&enc(oauth params)
//
// keyed with ConsumerSecret&enc(TokenSecret).
func Signature(c Credentials, method, url, timestamp string) string {
	key := c.ConsumerSecret + "&" + Encode(c.TokenSecret)

	params := strings.Join([]string{
		"oauth_consumer_key=" + c.ConsumerKey,
		"oauth_signature_method=" + SignatureMethod,
		"oauth_timestamp=" + timestamp,
		"oauth_token=" + c.Token,
		"oauth_version=1.0",
	}, "&")

	base := method + "&" + Encode(url) + "&" + Encode(params)

	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Encode applies PayPal's signature encoding: ASCII letters, digits and '_'
// pass through, a space becomes '+', every other byte becomes %xx in lower
// case hex.
func Encode(raw string) string {
	const hex = "0123456789abcdef"
	var b strings.Builder
	b.Grow(len(raw) * 3)
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '_':
			b.WriteByte(c)
		case c == ' ':
			b.WriteByte('+')
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}
	return b.String()
}
