package graph

// Error codes surfaced to clients in the GraphQL error extensions. Clients
// branch on these (redirect to login on UNAUTHENTICATED, access-denied view
// on FORBIDDEN), so the values are part of the API contract.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeBadUserInput    = "BAD_USER_INPUT"
)

// Error is a resolver failure with a machine-readable code. It implements
// gqlerrors.ExtendedError so the code travels in the response extensions.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

func errUnauthenticated() *Error {
	return &Error{Code: CodeUnauthenticated, Message: "UNAUTHENTICATED"}
}

func errForbidden() *Error {
	return &Error{Code: CodeForbidden, Message: "FORBIDDEN"}
}

func errBadInput(message string) *Error {
	return &Error{Code: CodeBadUserInput, Message: message}
}
