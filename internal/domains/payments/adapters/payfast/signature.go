package payfast

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/Apurer/courier-api/internal/domains/payments/domain"
)

const upperhex = "0123456789ABCDEF"

// Signature returns the MD5 hex digest PayFast expects over the ordered,
// non-empty fields, with the passphrase appended when one is configured.
func Signature(fields []domain.Field, passphrase string) string {
	var b strings.Builder
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(Encode(f.Value))
	}
	if passphrase != "" {
		b.WriteString("&passphrase=")
		b.WriteString(Encode(passphrase))
	}
	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Encode trims v and percent-encodes it with uppercase escapes, leaving
// RFC 3986 unreserved characters and !~*'() intact and turning spaces into +.
func Encode(v string) string {
	v = strings.TrimSpace(v)
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case unescaped(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
	return b.String()
}

func unescaped(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
