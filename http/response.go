package http

import (
	"github.com/gradebook-web/gradebook/http/status"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
)

const defaultContentType = "text/plain; charset=utf-8"

// Response is a status, a content type, and a body. Content-Length never
// appears here: the renderer derives it from the body it actually sends.
type Response struct {
	Code        status.Code
	ContentType string
	Body        []byte
}

func NewResponse() *Response {
	return &Response{
		Code:        status.OK,
		ContentType: defaultContentType,
	}
}

func (r *Response) WithCode(code status.Code) *Response {
	r.Code = code
	return r
}

func (r *Response) WithContentType(contentType string) *Response {
	r.ContentType = contentType
	return r
}

func (r *Response) WithBody(body []byte) *Response {
	r.Body = body
	return r
}

func (r *Response) WithString(body string) *Response {
	return r.WithBody(uf.S2B(body))
}

func (r *Response) WithHTML(body string) *Response {
	return r.WithContentType("text/html; charset=utf-8").WithString(body)
}

// WithJSON marshals the model via json-iterator. A marshal failure degrades
// the response to a 500, as a handler has no better option at that point.
func (r *Response) WithJSON(model any) *Response {
	stream := json.ConfigDefault.BorrowStream(nil)
	defer json.ConfigDefault.ReturnStream(stream)

	stream.WriteVal(model)
	if stream.Error != nil {
		return Error(status.ErrInternalServerError)
	}

	body := make([]byte, len(stream.Buffer()))
	copy(body, stream.Buffer())

	return r.WithContentType("application/json").WithBody(body)
}

// Error converts an error into a terminal response. Errors carrying a status
// code keep it, anything else is treated as an internal failure.
func Error(err error) *Response {
	if http, ok := err.(status.HTTPError); ok {
		return NewResponse().
			WithCode(http.Code).
			WithString(http.Message)
	}

	return NewResponse().
		WithCode(status.InternalServerError).
		WithString("internal server error")
}
