package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestSDKErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTransportError(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should reach the wrapped cause")
	}

	var sdkErr *SDKError
	if !errors.As(err, &sdkErr) {
		t.Fatal("errors.As() should extract *SDKError")
	}
	if sdkErr.Kind != KindTransport {
		t.Errorf("Kind = %v, want %v", sdkErr.Kind, KindTransport)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "transport error",
			err:  NewTransportError(errors.New("boom")),
			want: KindTransport,
		},
		{
			name: "user declined",
			err:  NewUserDeclinedError(errors.New("rejected")),
			want: KindUserDeclined,
		},
		{
			name: "precondition",
			err:  NewPreconditionError("missing input"),
			want: KindPrecondition,
		},
		{
			name: "ledger rejected",
			err:  NewLedgerRejectedError(errors.New("reverted")),
			want: KindLedgerRejected,
		},
		{
			name: "not found sentinel",
			err:  ErrIntentNotFound,
			want: KindAbsence,
		},
		{
			name: "wrapped sdk error keeps its kind",
			err:  fmt.Errorf("outer: %w", NewPreconditionError("inner")),
			want: KindPrecondition,
		},
		{
			name: "plain error defaults to transport",
			err:  errors.New("unknown"),
			want: KindTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(ErrIntentNotFound) {
		t.Error("IsNotFound(ErrIntentNotFound) = false")
	}
	if !IsNotFound(fmt.Errorf("fetch: %w", ErrIntentNotFound)) {
		t.Error("IsNotFound() should see through wrapping")
	}
	if IsNotFound(NewTransportError(errors.New("boom"))) {
		t.Error("IsNotFound() = true for transport error")
	}
}

func TestIsUserDeclined(t *testing.T) {
	if !IsUserDeclined(NewUserDeclinedError(errors.New("code 4001"))) {
		t.Error("IsUserDeclined() = false for user declined error")
	}
	if IsUserDeclined(NewTransportError(errors.New("boom"))) {
		t.Error("IsUserDeclined() = true for transport error")
	}
	if IsUserDeclined(nil) {
		t.Error("IsUserDeclined(nil) = true")
	}
}
