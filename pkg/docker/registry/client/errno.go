package client

import "fmt"

type Errno struct {
	Code    int
	Message string
}

func (err Errno) Error() string {
	return err.Message
}

var (
	// Common errors
	BadRequestErr     = &Errno{Code: 400, Message: "Bad Request"}
	UnauthorizedErr   = &Errno{Code: 401, Message: "Unauthorized."}
	ForbiddenErr      = &Errno{Code: 403, Message: "Forbidden."}
	NotFoundErr       = &Errno{Code: 404, Message: "Not Found."}
	TooManyRequestErr = &Errno{Code: 429, Message: "Too Many Requests"}
	InternalServerErr = &Errno{Code: 500, Message: "Internal server error"}
)

func statusErrno(code int, status string) error {
	switch code {
	case BadRequestErr.Code:
		return BadRequestErr
	case UnauthorizedErr.Code:
		return UnauthorizedErr
	case ForbiddenErr.Code:
		return ForbiddenErr
	case NotFoundErr.Code:
		return NotFoundErr
	case TooManyRequestErr.Code:
		return TooManyRequestErr
	case InternalServerErr.Code:
		return InternalServerErr
	}
	if code >= 400 {
		return &Errno{Code: code, Message: fmt.Sprintf("unexpected status %s", status)}
	}
	return nil
}
