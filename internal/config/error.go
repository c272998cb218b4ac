package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid matches every *Error under errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// Error reports everything wrong with one configuration source:
// unresolved ${VAR} references and failed validation rules.
type Error struct {
	Path    string   // empty for built-in defaults
	Missing []string // unset environment variables
	Errors  []string // Validate output
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(ErrInvalid.Error())
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "\n  unset environment variables: %s", strings.Join(e.Missing, ", "))
	}
	for _, msg := range e.Errors {
		fmt.Fprintf(&b, "\n  - %s", msg)
	}
	return b.String()
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}
