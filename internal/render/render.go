// Package render serializes responses onto the socket. Exactly one response
// leaves per connection, and Content-Length is always derived from the body
// actually being sent.
package render

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gradebook-web/gradebook/config"
	"github.com/gradebook-web/gradebook/http"
	"github.com/gradebook-web/gradebook/http/status"
)

// Write emits the status line, the header block and the body. The header
// block and the body are two separate writes, but one logical unit: if the
// header write fails, the body is never attempted. Any failure is reported to
// the caller; closing the connection stays the caller's duty either way.
func Write(conn net.Conn, cfg config.Config, resp *http.Response) error {
	if err := conn.SetWriteDeadline(time.Now().Add(cfg.NET.WriteTimeout)); err != nil {
		return err
	}

	if _, err := conn.Write(head(cfg, resp)); err != nil {
		return fmt.Errorf("transport: write headers: %w", err)
	}

	if len(resp.Body) == 0 {
		return nil
	}

	if _, err := conn.Write(resp.Body); err != nil {
		return fmt.Errorf("transport: write body: %w", err)
	}

	return nil
}

func head(cfg config.Config, resp *http.Response) []byte {
	buff := make([]byte, 0, 128)

	buff = append(buff, "HTTP/1.1 "...)
	buff = strconv.AppendUint(buff, uint64(resp.Code), 10)
	buff = append(buff, ' ')
	buff = append(buff, status.Text(resp.Code)...)
	buff = crlf(buff)

	buff = field(buff, "Server", cfg.HTTP.Server)
	buff = field(buff, "Content-Type", resp.ContentType)
	buff = append(buff, "Content-Length: "...)
	buff = strconv.AppendInt(buff, int64(len(resp.Body)), 10)
	buff = crlf(buff)
	// one request per connection, no keep-alive semantics whatsoever
	buff = field(buff, "Connection", "close")

	return crlf(buff)
}

func field(buff []byte, key, value string) []byte {
	buff = append(buff, key...)
	buff = append(buff, ": "...)
	buff = append(buff, value...)

	return crlf(buff)
}

func crlf(buff []byte) []byte {
	return append(buff, '\r', '\n')
}
