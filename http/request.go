package http

import (
	"net"

	"github.com/gradebook-web/gradebook/form"
	"github.com/gradebook-web/gradebook/http/method"
)

// Request is the parsed view of a single one-shot exchange. It is constructed
// per accepted connection and thrown away as soon as the handler returns.
type Request struct {
	Method   method.Method
	Path     string
	RawQuery string
	Proto    string
	Headers  *Headers
	Body     []byte
	Remote   net.Addr

	query *form.Form
	body  *form.Form
}

func NewRequest() *Request {
	return &Request{
		Headers: NewHeaders(),
	}
}

// Query parses the query string on first use. A target with no '?' yields an
// empty form, which is still a valid form, just with no entries.
func (r *Request) Query() *form.Form {
	if r.query == nil {
		r.query = form.Decode([]byte(r.RawQuery))
	}

	return r.query
}

// Form parses the body as application/x-www-form-urlencoded on first use.
func (r *Request) Form() *form.Form {
	if r.body == nil {
		r.body = form.Decode(r.Body)
	}

	return r.body
}
