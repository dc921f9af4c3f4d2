package domain

import (
	"errors"
	"testing"
)

func TestUpstreamStatusErrorMatchesSentinel(t *testing.T) {
	err := WrapError(ErrUpstreamStatus, "fetch document", &UpstreamStatusError{Status: 404})
	if !IsKind(err, ErrUpstreamStatus) {
		t.Fatalf("expected wrapped status error to match ErrUpstreamStatus, got %v", err)
	}
	if IsKind(err, ErrUpstreamFetch) {
		t.Fatalf("status error must not match ErrUpstreamFetch")
	}
	if got := UpstreamStatus(err); got != 404 {
		t.Fatalf("expected upstream status 404, got %d", got)
	}
}

func TestUpstreamStatusReturnsZeroForTransportFailure(t *testing.T) {
	err := WrapError(ErrUpstreamFetch, "fetch document", errors.New("dial tcp: timeout"))
	if got := UpstreamStatus(err); got != 0 {
		t.Fatalf("expected 0 for transport failure, got %d", got)
	}
}
