package util

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		msg     string
		wantNil bool
		wantMsg string
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			msg:     "context",
			wantNil: true,
		},
		{
			name:    "wrap real error",
			err:     errors.New("original"),
			msg:     "context",
			wantMsg: "context: original",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WrapError(tt.err, tt.msg)

			if tt.wantNil {
				if result != nil {
					t.Errorf("WrapError() = %v, want nil", result)
				}
				return
			}

			if result == nil {
				t.Fatal("WrapError() returned nil, want error")
			}
			if result.Error() != tt.wantMsg {
				t.Errorf("WrapError().Error() = %s, want %s", result.Error(), tt.wantMsg)
			}
			if !errors.Is(result, tt.err) {
				t.Error("Wrapped error should contain original error")
			}
		})
	}
}

func TestWrapErrorf(t *testing.T) {
	if WrapErrorf(nil, "fetch %s", "config") != nil {
		t.Error("WrapErrorf(nil) should return nil")
	}

	orig := errors.New("original")
	err := WrapErrorf(orig, "fetch %s (attempt %d)", "config", 1)
	if err.Error() != "fetch config (attempt 1): original" {
		t.Errorf("WrapErrorf().Error() = %s", err.Error())
	}
	if !errors.Is(err, orig) {
		t.Error("WrapErrorf() should wrap the original error")
	}
}

func TestInvalidArgument(t *testing.T) {
	err := InvalidArgument("host cannot be empty")

	if !IsInvalidArgument(err) {
		t.Error("InvalidArgument() should match ErrInvalidArgument")
	}
	if err.Error() != "invalid argument: host cannot be empty" {
		t.Errorf("InvalidArgument().Error() = %s", err.Error())
	}
	if IsNotConfigured(err) {
		t.Error("InvalidArgument() should not match ErrNotConfigured")
	}
}

func TestIsNotConfigured(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrNotConfigured, true},
		{"wrapped", fmt.Errorf("proxy: %w", ErrNotConfigured), true},
		{"other", ErrInvalidConfig, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotConfigured(tt.err); got != tt.want {
				t.Errorf("IsNotConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}
