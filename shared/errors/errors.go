package errors

import "errors"

// Configuration sources (brand groups file, dictionary CSV) are fatal to the
// build phase when absent or malformed. Callers match with errors.Is.
var (
	ErrConfigNotFound = errors.New("configuration source not found")
	ErrConfigParse    = errors.New("configuration source malformed")
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}
