package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
)

// Error collects per-field validation messages. It matches
// apperrors.ErrInvalidFilter with errors.Is.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error { return apperrors.ErrInvalidFilter }
