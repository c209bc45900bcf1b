package util

import (
	"io"

	"github.com/jxskiss/base62"
	"github.com/pkg/errors"
)

const Base62Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var base62Encoding = base62.NewEncoding(Base62Alphabet)

// largest multiple of 62 that fits in a byte, bytes at or above it are
// rejected so every symbol is equally likely
const base62RejectionBound = 62 * 4

func EncodeBase62(b []byte) string {
	return base62Encoding.EncodeToString(b)
}

// RandomBase62 draws length symbols from Base62Alphabet using random, which
// should be a CSPRNG such as crypto/rand.Reader.
func RandomBase62(length int, random io.Reader) (string, error) {
	if length <= 0 {
		return "", nil
	}

	code := make([]byte, 0, length)
	buf := make([]byte, length+length/2)
	for len(code) < length {
		if _, err := io.ReadFull(random, buf); err != nil {
			return "", errors.Wrap(err, "read random bytes failed")
		}
		for _, b := range buf {
			if b >= base62RejectionBound {
				continue
			}
			code = append(code, Base62Alphabet[b%62])
			if len(code) == length {
				break
			}
		}
	}
	return string(code), nil
}

func IsValidBase62(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isBase62Char(s[i]) {
			return false
		}
	}
	return true
}

func isBase62Char(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
