package datasource

import (
	"errors"
	"fmt"
	"net/http"
)

var errNilPoster = errors.New("nil poster")
var errEmptyURL = errors.New("empty data source URL")

type errStatusNotOK int

func (e errStatusNotOK) Error() string {
	return fmt.Sprintf("non-2xx HTTP status code: %d %s", int(e), http.StatusText(int(e)))
}

type errPathNotFound string

func (e errPathNotFound) Error() string {
	return "JSON path not found in response: " + string(e)
}

// errDataSource is a failure reported by the data source inside a well-formed response
type errDataSource struct {
	reason  string
	message string
}

func (e *errDataSource) Error() string {
	if len(e.message) == 0 {
		return "data source error: " + e.reason
	}

	return fmt.Sprintf("data source error: %s, %s", e.reason, e.message)
}
