// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultMaxContentLength is the exclusive upper bound on trimmed text length.
// It approximates the embedding provider's input limit.
const DefaultMaxContentLength = 8192

// ContentValidator decides whether a text unit can be embedded.
type ContentValidator struct {
	maxLength int
}

// NewContentValidator creates a validator with the given exclusive length bound.
// A non-positive bound selects DefaultMaxContentLength.
func NewContentValidator(maxLength int) ContentValidator {
	if maxLength <= 0 {
		maxLength = DefaultMaxContentLength
	}
	return ContentValidator{maxLength: maxLength}
}

// MaxLength returns the exclusive bound in runes.
func (v ContentValidator) MaxLength() int {
	if v.maxLength <= 0 {
		return DefaultMaxContentLength
	}
	return v.maxLength
}

// IsValid reports whether text is non-empty after trimming and strictly shorter
// than the bound.
func (v ContentValidator) IsValid(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	return utf8.RuneCountInString(trimmed) < v.MaxLength()
}

// Validate is IsValid with a reason attached.
func (v ContentValidator) Validate(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyContent
	}
	if n := utf8.RuneCountInString(trimmed); n >= v.MaxLength() {
		return fmt.Errorf("%w: %d >= %d", ErrContentTooLong, n, v.MaxLength())
	}
	return nil
}
