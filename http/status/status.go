package status

type (
	Code   uint16
	Status string
)

// Status codes actually emitted by the system. The set is deliberately small:
// everything the handlers and the core ever put on the wire is listed here.
const (
	OK                  Code = 200
	BadRequest          Code = 400
	Unauthorized        Code = 401
	NotFound            Code = 404
	MethodNotAllowed    Code = 405
	Conflict            Code = 409
	InternalServerError Code = 500
)

// Text returns the reason phrase for the code, or "Unknown Status" for codes
// outside the emitted set.
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case BadRequest:
		return "Bad Request"
	case Unauthorized:
		return "Unauthorized"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case Conflict:
		return "Conflict"
	case InternalServerError:
		return "Internal Server Error"
	}

	return "Unknown Status"
}
