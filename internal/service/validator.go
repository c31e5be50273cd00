package service

import (
	"strings"
	"unicode/utf8"

	internal_errors "github.com/murmur-dev/murmur/internal/errors"
)

// Validator enforces the shared content rules for messages, broadcasts and
// comments.
type Validator struct {
	maxLen int // rune count, not bytes
}

func NewContentValidator(maxLen int) *Validator {
	return &Validator{maxLen: maxLen}
}

func (v *Validator) Content(text string) error {
	if strings.TrimSpace(text) == "" {
		return internal_errors.InvalidInput("Content cannot be empty")
	}
	if utf8.RuneCountInString(text) > v.maxLen {
		return internal_errors.InvalidInput("Content is too long")
	}
	return nil
}

func (v *Validator) Emoji(emoji string) error {
	if strings.TrimSpace(emoji) == "" {
		return internal_errors.InvalidInput("Emoji cannot be empty")
	}
	if utf8.RuneCountInString(emoji) > 8 {
		return internal_errors.InvalidInput("Emoji is too long")
	}
	return nil
}
