package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/lecternlabs/lectern/pkg/domain"
)

func TestLimits_ValidateIdentifiers(t *testing.T) {
	limits := domain.DefaultLimits

	cases := []struct {
		name      string
		id        string
		wantField string
	}{
		{"empty", "", domain.FieldSessionID},
		{"single byte", "a", ""},
		{"max length", strings.Repeat("x", 100), ""},
		{"one over max", strings.Repeat("x", 101), domain.FieldSessionID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := limits.ValidateSessionID(tc.id)
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateSessionID(%q) failed: %v", tc.id, err)
				}
				return
			}

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Field != tc.wantField {
				t.Errorf("Expected field %q, got %q", tc.wantField, verr.Field)
			}
		})
	}
}

func TestLimits_UserIDFieldIsDistinct(t *testing.T) {
	err := domain.DefaultLimits.ValidateUserID("")

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Field != domain.FieldUserID {
		t.Errorf("Expected field %q, got %q", domain.FieldUserID, verr.Field)
	}
}

func TestLimits_ValidatePage(t *testing.T) {
	limits := domain.Limits{MaxPageBytes: 8}

	if err := limits.ValidatePage(""); err != nil {
		t.Errorf("Empty page should be valid, got %v", err)
	}
	if err := limits.ValidatePage("12345678"); err != nil {
		t.Errorf("Page at the limit should be valid, got %v", err)
	}

	err := limits.ValidatePage("123456789")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError for oversized page, got %v", err)
	}
	if verr.Field != domain.FieldPage {
		t.Errorf("Expected field %q, got %q", domain.FieldPage, verr.Field)
	}
}

func TestLimits_Normalized(t *testing.T) {
	got := domain.Limits{}.Normalized()
	if got != domain.DefaultLimits {
		t.Errorf("Expected zero limits to normalize to defaults, got %+v", got)
	}

	custom := domain.Limits{MaxIDLength: 3, MaxPageBytes: 10}
	if got := custom.Normalized(); got != custom {
		t.Errorf("Expected positive limits to survive normalization, got %+v", got)
	}

	// A zero value behaves like the defaults without explicit normalization.
	if err := (domain.Limits{}).ValidateSessionID(strings.Repeat("x", 100)); err != nil {
		t.Errorf("Zero limits should accept a 100-byte ID, got %v", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := domain.DefaultLimits.ValidateSessionID("")
	if err == nil {
		t.Fatal("Expected error for empty session ID")
	}
	if got := err.Error(); got != "session id must not be empty" {
		t.Errorf("Expected human-readable message, got %q", got)
	}
}
