package domain

import (
	"errors"
	"testing"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("query", "required")

	if got := err.Error(); got != "validation: query: required" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "query", Message: "required"},
		{Field: "language", Message: "unsupported"},
	})

	if got := err.Error(); got != "validation: 2 errors" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
	if len(err.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(err.Errors))
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrNotFound, ErrAlreadyExists, ErrValidation, ErrUnauthorized, ErrConflict,
		ErrNoCredentials, ErrConfigMissing, ErrUpstreamFailure,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel errors %d and %d should not match", i, j)
			}
		}
	}
}

func TestLookupError_Kinds(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")

	upstream := NewUpstreamError("serendipity", cause)
	if !errors.Is(upstream, ErrUpstreamFailure) {
		t.Error("upstream error should match ErrUpstreamFailure")
	}
	if !errors.Is(upstream, cause) {
		t.Error("upstream error should unwrap to its cause")
	}
	if errors.Is(upstream, ErrConfigMissing) {
		t.Error("upstream error should not match ErrConfigMissing")
	}

	missing := NewConfigMissingError("serendipity", ErrNoCredentials)
	if !errors.Is(missing, ErrConfigMissing) || !errors.Is(missing, ErrNoCredentials) {
		t.Error("config-missing error should match both its kind and cause")
	}

	var le *LookupError
	if !errors.As(missing, &le) || le.Word != "serendipity" {
		t.Errorf("errors.As should expose the word, got %+v", le)
	}
}

func TestLookupError_Message(t *testing.T) {
	t.Parallel()

	err := &LookupError{Kind: ErrUpstreamFailure, Word: "cat"}
	if got := err.Error(); got != `lookup "cat": upstream failure` {
		t.Errorf("Error() = %q", got)
	}
}
