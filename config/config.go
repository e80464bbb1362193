package config

import "time"

type (
	NET struct {
		// ReadBufferSize is the size of the chunk used for each socket read.
		ReadBufferSize int
		// MaxRequestSize bounds the assembled request (headers and body).
		// When the limit is reached the reader stops consuming instead of
		// growing without bound, and whatever was collected goes to the
		// parser as-is.
		MaxRequestSize int
		// ReadTimeout caps how long a single connection may take to deliver
		// its request. A slow client must not stall the acceptor forever.
		ReadTimeout time.Duration
		// WriteTimeout caps the response transmission.
		WriteTimeout time.Duration
	}

	HTTP struct {
		// Server is the Server header value stamped on every response.
		Server string
	}
)

// Config holds the knobs of the transport core. Always start from Default()
// and modify the fields you need; zero values are not usable settings.
type Config struct {
	NET  NET
	HTTP HTTP
}

func Default() *Config {
	return &Config{
		NET: NET{
			ReadBufferSize: 4 * 1024,
			// 256kb fits the largest form the system ever receives with a
			// wide margin.
			MaxRequestSize: 256 * 1024,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
		},
		HTTP: HTTP{
			Server: "gradebook",
		},
	}
}
