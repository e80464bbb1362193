package http

import "strconv"

type pair struct {
	key, value string
}

// Headers is an associative store for header fields. It acts as a map but uses
// linear search instead, which proves to be cheaper on the handful of headers
// an ordinary request carries. Key lookups are case-insensitive.
type Headers struct {
	pairs []pair
}

func NewHeaders() *Headers {
	return new(Headers)
}

func (h *Headers) Add(key, value string) *Headers {
	h.pairs = append(h.pairs, pair{key, value})
	return h
}

// Get returns the last value set for the key and whether the key was present
// at all.
func (h *Headers) Get(key string) (value string, found bool) {
	for i := len(h.pairs) - 1; i >= 0; i-- {
		if foldEqual(h.pairs[i].key, key) {
			return h.pairs[i].value, true
		}
	}

	return "", false
}

// Value returns the value for the key, or an empty string if absent.
func (h *Headers) Value(key string) string {
	value, _ := h.Get(key)
	return value
}

func (h *Headers) Len() int {
	return len(h.pairs)
}

// ContentLength reads the Content-Length field as a non-negative integer.
// A missing or non-numeric value counts as zero.
func (h *Headers) ContentLength() int {
	value, found := h.Get("Content-Length")
	if !found {
		return 0
	}

	n, err := strconv.Atoi(trimSpaces(value))
	if err != nil || n < 0 {
		return 0
	}

	return n
}

func trimSpaces(s string) string {
	begin, end := 0, len(s)
	for begin < end && (s[begin] == ' ' || s[begin] == '\t') {
		begin++
	}
	for end > begin && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}

	return s[begin:end]
}

// foldEqual compares two ASCII strings case-insensitively without allocating.
func foldEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}

	return true
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c | 0x20
	}

	return c
}
