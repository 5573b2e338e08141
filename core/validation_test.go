package core

import (
	"errors"
	"strings"
	"testing"
)

func TestContentValidator_IsValid(t *testing.T) {
	v := NewContentValidator(DefaultMaxContentLength)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "empty", text: "", want: false},
		{name: "whitespace only", text: " \n\t ", want: false},
		{name: "short text", text: "hello", want: true},
		{name: "just under bound", text: strings.Repeat("a", 8191), want: true},
		{name: "at bound", text: strings.Repeat("a", 8192), want: false},
		{name: "over bound", text: strings.Repeat("a", 9000), want: false},
		{name: "padding is trimmed before measuring", text: "  " + strings.Repeat("a", 8191) + "\n\n", want: true},
		{name: "multibyte runes count once", text: strings.Repeat("é", 8191), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.IsValid(tt.text); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContentValidator_Validate(t *testing.T) {
	v := NewContentValidator(10)

	if err := v.Validate("   "); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("Validate(blank) error = %v, want %v", err, ErrEmptyContent)
	}
	if err := v.Validate(strings.Repeat("x", 10)); !errors.Is(err, ErrContentTooLong) {
		t.Errorf("Validate(10 runes) error = %v, want %v", err, ErrContentTooLong)
	}
	if err := v.Validate("123456789"); err != nil {
		t.Errorf("Validate(9 runes) error = %v, want nil", err)
	}
}

func TestNewContentValidator_DefaultBound(t *testing.T) {
	if got := NewContentValidator(0).MaxLength(); got != DefaultMaxContentLength {
		t.Errorf("MaxLength() = %d, want %d", got, DefaultMaxContentLength)
	}
	var zero ContentValidator
	if got := zero.MaxLength(); got != DefaultMaxContentLength {
		t.Errorf("zero value MaxLength() = %d, want %d", got, DefaultMaxContentLength)
	}
}
