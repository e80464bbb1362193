// Package parser turns the raw bytes assembled by the connection reader into
// a structured request. It is deliberately shallow: the only header the core
// itself ever interprets is Content-Length.
package parser

import (
	"bytes"
	"strings"

	"github.com/gradebook-web/gradebook/http"
	"github.com/gradebook-web/gradebook/http/method"
	"github.com/gradebook-web/gradebook/http/status"
	"github.com/indigo-web/utils/uf"
)

var terminator = []byte("\r\n\r\n")

// HeaderEnd returns the offset of the header terminator, or -1 if the block
// is not complete yet.
func HeaderEnd(data []byte) int {
	return bytes.Index(data, terminator)
}

// ParseHeaders decodes the header lines of a head section (everything after
// the request line). Lines without a colon are skipped.
func ParseHeaders(head []byte) *http.Headers {
	headers := http.NewHeaders()

	for _, line := range strings.Split(uf.B2S(head), "\r\n") {
		colon := strings.IndexByte(line, ':')
		if colon == -1 {
			continue
		}

		headers.Add(
			strings.TrimSpace(line[:colon]),
			strings.TrimSpace(line[colon+1:]),
		)
	}

	return headers
}

// IsChunked reports whether the head section declares a chunked body.
func IsChunked(headers *http.Headers) bool {
	return strings.Contains(
		strings.ToLower(headers.Value("Transfer-Encoding")), "chunked",
	)
}

// Parse produces a request out of the fully assembled raw bytes. Parsing the
// same bytes twice yields structurally identical requests.
//
// The request line is split on whitespace runs; the first two tokens are
// method and target, the third (if any) is the protocol, and anything beyond
// is ignored. A line that cannot yield at least a method and a target fails
// with status.ErrMalformedRequest, and the caller must answer 400 without
// routing.
func Parse(raw []byte) (*http.Request, error) {
	head, body := cut(raw)

	line, rest := splitLine(head)
	tokens := strings.Fields(uf.B2S(line))
	if len(tokens) < 2 {
		return nil, status.ErrMalformedRequest
	}

	request := http.NewRequest()
	request.Method = method.Parse(tokens[0])
	request.Path, request.RawQuery = splitTarget(tokens[1])
	if len(tokens) >= 3 {
		request.Proto = tokens[2]
	}

	request.Headers = ParseHeaders(rest)

	// The body is exactly what Content-Length declares (absent counts as
	// zero), or whatever the reader de-chunked. A short read is tolerated,
	// stray trailing bytes are cut off.
	if !IsChunked(request.Headers) {
		if declared := request.Headers.ContentLength(); len(body) > declared {
			body = body[:declared]
		}
	}
	request.Body = body

	return request, nil
}

// cut splits raw bytes into the head section and the body. A request without
// a complete header block is treated as all-head: the parser still extracts
// whatever the request line offers.
func cut(raw []byte) (head, body []byte) {
	end := HeaderEnd(raw)
	if end == -1 {
		return raw, nil
	}

	return raw[:end], raw[end+len(terminator):]
}

func splitLine(data []byte) (line, rest []byte) {
	lf := bytes.IndexByte(data, '\n')
	if lf == -1 {
		return data, nil
	}

	line = data[:lf]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}

	return line, data[lf+1:]
}

// splitTarget separates the path from the raw query on the first '?'. A target
// without one yields an empty query string, not an absent one.
func splitTarget(target string) (path, query string) {
	if qm := strings.IndexByte(target, '?'); qm != -1 {
		return target[:qm], target[qm+1:]
	}

	return target, ""
}
