package status

// HTTPError carries a status code along the error path, so any layer can turn
// a failure into a terminal response without consulting whoever raised it.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	// ErrMalformedRequest is raised when the request line cannot yield at least
	// a method and a path. The connection is answered with 400 and closed
	// without ever reaching the router.
	ErrMalformedRequest = NewError(BadRequest, "malformed request")

	ErrBadRequest          = NewError(BadRequest, "bad request")
	ErrUnauthorized        = NewError(Unauthorized, "unauthorized")
	ErrNotFound            = NewError(NotFound, "not found")
	ErrMethodNotAllowed    = NewError(MethodNotAllowed, "method not allowed")
	ErrConflict            = NewError(Conflict, "conflict")
	ErrInternalServerError = NewError(InternalServerError, "internal server error")
)
