package datasource

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrFetchFailed matches every error returned by a DataSource.
var ErrFetchFailed = errors.New("fetch failed")

// FetchError is the only failure a DataSource reports. Resource is the fixture
// key in mock mode and the endpoint path in live mode. StatusCode is zero when
// no HTTP response was received.
type FetchError struct {
	Resource   string
	StatusCode int
	Err        error
}

func newFetchError(resource string, statusCode int, cause error) *FetchError {
	return &FetchError{Resource: resource, StatusCode: statusCode, Err: cause}
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", ErrFetchFailed, e.Resource)
	}
	return fmt.Sprintf("%v: %s: %v", ErrFetchFailed, e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}
