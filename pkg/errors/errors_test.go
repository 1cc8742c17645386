package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestStructuredErrorFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *StructuredError
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeEmptyInput, "no runs provided"),
			want: "[EMPTY_INPUT] no runs provided",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeSetupFailed, "backend setup failed", fmt.Errorf("device busy")),
			want: "[SETUP_FAILED] backend setup failed: device busy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("root cause")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestIsCode(t *testing.T) {
	t.Parallel()

	base := New(ErrCodeInvalidDuration, "duration <= 0")
	wrapped := fmt.Errorf("iteration 3: %w", base)

	if !IsCode(wrapped, ErrCodeInvalidDuration) {
		t.Error("IsCode should match through wrapping")
	}
	if IsCode(wrapped, ErrCodeEmptyInput) {
		t.Error("IsCode should not match a different code")
	}
	if IsCode(fmt.Errorf("plain"), ErrCodeInternal) {
		t.Error("IsCode should not match a plain error")
	}
}

func TestCodeOf(t *testing.T) {
	t.Parallel()

	if got := CodeOf(New(ErrCodeUnknownBackend, "nope")); got != ErrCodeUnknownBackend {
		t.Errorf("CodeOf() = %q, want %q", got, ErrCodeUnknownBackend)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != ErrCodeInternal {
		t.Errorf("CodeOf() = %q, want %q", got, ErrCodeInternal)
	}
}

func TestNewWithContext(t *testing.T) {
	t.Parallel()

	err := NewWithContext(ErrCodeInsufficientBackends, "need two backends", map[string]any{
		"provided": 1,
	})

	if err.Context["provided"] != 1 {
		t.Error("context should carry provided key")
	}
}
