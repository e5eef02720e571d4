package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessageFallbacks(t *testing.T) {
	cause := errors.New("socket closed")

	err := New(KindTransient, "", cause)
	if got := err.Error(); got != "Temporary upstream error. Please try again." {
		t.Errorf("default safe message mismatch: %q", got)
	}

	err = New(KindAuth, "custom message", cause)
	if got := err.Error(); got != "custom message" {
		t.Errorf("custom safe message mismatch: %q", got)
	}

	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
}

func TestKindOf(t *testing.T) {
	err := RateLimit(errors.New("429"))
	kind, ok := KindOf(err)
	if !ok || kind != KindRateLimit {
		t.Errorf("KindOf = (%v, %v), want (%v, true)", kind, ok, KindRateLimit)
	}

	wrapped := fmt.Errorf("outer: %w", err)
	kind, ok = KindOf(wrapped)
	if !ok || kind != KindRateLimit {
		t.Errorf("KindOf through wrap = (%v, %v), want (%v, true)", kind, ok, KindRateLimit)
	}

	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf should not match plain errors")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"transient", Transient(errors.New("x")), true},
		{"rate limit", RateLimit(errors.New("x")), true},
		{"validation", Validation(errors.New("x")), true},
		{"auth", Auth(errors.New("x")), false},
		{"bad request", BadRequest(errors.New("x")), false},
		{"plain", errors.New("x"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryable(tc.err); got != tc.want {
				t.Errorf("IsRetryable = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPublicMessage(t *testing.T) {
	if got := PublicMessage(nil); got != "" {
		t.Errorf("PublicMessage(nil) = %q", got)
	}
	if got := PublicMessage(Auth(errors.New("token expired"))); got == "token expired" {
		t.Error("PublicMessage must not leak the cause for classified errors")
	}
	if got := PublicMessage(errors.New("plain failure")); got != "plain failure" {
		t.Errorf("PublicMessage(plain) = %q", got)
	}
}
