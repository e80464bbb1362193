package tcp

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/gradebook-web/gradebook/config"
	"github.com/gradebook-web/gradebook/http/status"
	"github.com/gradebook-web/gradebook/internal/parser"
	"github.com/indigo-web/chunkedbody"
)

// ErrNoRequest signals that the client opened the connection and closed it
// without ever sending a byte. It is not a parse failure: the caller must
// abort silently, as there is nobody to answer.
var ErrNoRequest = errors.New("connection closed without a request")

// ReadRequest pulls bytes off the connection until a complete request is
// assembled: headers up to the terminator, then the body per Content-Length
// (or de-chunked, if the client used chunked transfer encoding).
//
// The buffer never grows past cfg.MaxRequestSize. On exhaustion the reader
// stops consuming and hands over whatever was collected; the parser and the
// handlers deal with the truncation. A connection that closes before the
// declared body arrived is a short-body condition, not a failure.
func ReadRequest(conn net.Conn, cfg config.NET, chunked *chunkedbody.Parser) ([]byte, error) {
	var (
		buff  = make([]byte, 0, cfg.ReadBufferSize)
		chunk = make([]byte, cfg.ReadBufferSize)
		end   = -1
	)

	for end == -1 {
		n, err := read(conn, chunk, cfg.ReadTimeout)
		if n > 0 {
			buff = append(buff, chunk[:n]...)
			end = parser.HeaderEnd(buff)
		}
		if err != nil {
			if len(buff) == 0 {
				return nil, ErrNoRequest
			}

			// whatever we got is all we will ever get
			return buff, nil
		}
		if len(buff)+cfg.ReadBufferSize > cfg.MaxRequestSize {
			// a step away from exhaustion: stop reading instead of growing
			return buff, nil
		}
	}

	headers := parser.ParseHeaders(buff[:end])
	if parser.IsChunked(headers) {
		return readChunked(conn, cfg, chunked, buff, end)
	}

	declared := headers.ContentLength()
	for len(buff)-(end+4) < declared && len(buff)+cfg.ReadBufferSize <= cfg.MaxRequestSize {
		n, err := read(conn, chunk, cfg.ReadTimeout)
		buff = append(buff, chunk[:n]...)
		if err != nil {
			break
		}
	}

	return buff, nil
}

// readChunked decodes a chunked body and splices it back after the header
// block, so the parser downstream sees one plain assembled request.
func readChunked(
	conn net.Conn, cfg config.NET, decoder *chunkedbody.Parser, buff []byte, end int,
) ([]byte, error) {
	var (
		head    = buff[:end+4]
		pending = buff[end+4:]
		body    []byte
		chunk   = make([]byte, cfg.ReadBufferSize)
	)

	for {
		for len(pending) > 0 {
			decoded, extra, err := decoder.Parse(pending, false)
			switch err {
			case nil:
				body = append(body, decoded...)
				pending = extra
			case io.EOF:
				body = append(body, decoded...)
				return append(head, body...), nil
			default:
				return nil, status.ErrMalformedRequest
			}
		}

		if len(head)+len(body)+cfg.ReadBufferSize > cfg.MaxRequestSize {
			return append(head, body...), nil
		}

		n, err := read(conn, chunk, cfg.ReadTimeout)
		if err != nil {
			// short chunked body; hand over what was decoded so far
			return append(head, body...), nil
		}
		pending = chunk[:n]
	}
}

func read(conn net.Conn, into []byte, timeout time.Duration) (int, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, err
	}

	return conn.Read(into)
}
