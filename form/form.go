// Package form decodes application/x-www-form-urlencoded payloads. The same
// decoder serves both query strings and request bodies: it does not care where
// the bytes came from.
package form

import (
	"strconv"

	"github.com/indigo-web/utils/uf"
)

type Pair struct {
	Key, Value string
}

// Form is a decoded key-value view of an urlencoded payload. Entries keep
// their wire order; on duplicate keys the last occurrence wins.
type Form struct {
	pairs []Pair
}

// Decode walks the key=value&key=value sequence. Entries without a '=' are
// skipped entirely rather than treated as keys with empty values.
func Decode(data []byte) *Form {
	f := new(Form)

	for len(data) > 0 {
		entry := data
		if amp := index(data, '&'); amp != -1 {
			entry, data = data[:amp], data[amp+1:]
		} else {
			data = nil
		}

		eq := index(entry, '=')
		if eq == -1 {
			continue
		}

		f.pairs = append(f.pairs, Pair{
			Key:   decodeComponent(entry[:eq]),
			Value: decodeComponent(entry[eq+1:]),
		})
	}

	return f
}

// Lookup returns the value for the key and whether the key was present at all.
// An absent key is a distinct state from an empty value; callers must branch
// on the flag, never on the emptiness of the string.
func (f *Form) Lookup(key string) (value string, found bool) {
	for i := len(f.pairs) - 1; i >= 0; i-- {
		if f.pairs[i].Key == key {
			return f.pairs[i].Value, true
		}
	}

	return "", false
}

// Value returns the value for the key, or an empty string if absent.
func (f *Form) Value(key string) string {
	value, _ := f.Lookup(key)
	return value
}

// Int looks the key up and parses it as a base-10 integer.
func (f *Form) Int(key string) (int, bool) {
	value, found := f.Lookup(key)
	if !found {
		return 0, false
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}

	return n, true
}

func (f *Form) Len() int {
	return len(f.pairs)
}

// Pairs exposes the decoded entries in wire order.
func (f *Form) Pairs() []Pair {
	return f.pairs
}

// decodeComponent resolves '+' into a space and %XX escapes into their byte
// values. Decoding is best-effort: a malformed escape (non-hex digits, or one
// truncated at the end of the component) passes through literally instead of
// failing the whole decode.
func decodeComponent(src []byte) string {
	buff := make([]byte, 0, len(src))

	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '+':
			buff = append(buff, ' ')
		case '%':
			if i+2 < len(src) && isHex(src[i+1]) && isHex(src[i+2]) {
				buff = append(buff, unhex(src[i+1])<<4|unhex(src[i+2]))
				i += 2
			} else {
				buff = append(buff, c)
			}
		default:
			buff = append(buff, c)
		}
	}

	return uf.B2S(buff)
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') ||
		('a' <= c && c <= 'f') ||
		('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c <= '9':
		return c - '0'
	case c >= 'a':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func index(data []byte, c byte) int {
	for i := range data {
		if data[i] == c {
			return i
		}
	}

	return -1
}
