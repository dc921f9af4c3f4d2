package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrRecordNotFound = errors.New("record not found")
	ErrStoreQuery     = errors.New("store query failed")
	ErrUpstreamFetch  = errors.New("upstream fetch failed")
	ErrUpstreamStatus = errors.New("upstream returned error status")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// UpstreamStatusError reports a non-2xx answer from a remote document host.
// It is distinct from ErrUpstreamFetch, which covers transport failures
// that never produced a status code.
type UpstreamStatusError struct {
	Status int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

func (e *UpstreamStatusError) Is(target error) bool {
	return target == ErrUpstreamStatus
}

// UpstreamStatus extracts the upstream status code from an error chain.
// It returns 0 when the chain holds no UpstreamStatusError.
func UpstreamStatus(err error) int {
	var statusErr *UpstreamStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status
	}
	return 0
}
