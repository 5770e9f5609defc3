package model

import (
	"errors"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
)

// DiagnosticKind classifies a recoverable problem found while loading or valuing a ledger.
type DiagnosticKind string

// Diagnostic kinds.
const (
	DiagnosticMalformedRow     DiagnosticKind = "malformed_row"
	DiagnosticUnknownAccount   DiagnosticKind = "unknown_account_convention"
	DiagnosticOversell         DiagnosticKind = "oversell"
	DiagnosticPriceUnavailable DiagnosticKind = "price_unavailable"
	DiagnosticFxUnavailable    DiagnosticKind = "fx_unavailable"
)

// Diagnostic is a warning accumulated alongside a snapshot instead of being
// returned as an error.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Row      int            `json:"row,omitempty"`
	Account  string         `json:"account,omitempty"`
	Security string         `json:"security,omitempty"`
	Currency string         `json:"currency,omitempty"`
	Message  string         `json:"message"`
	Err      error          `json:"-"`
}

// NewDiagnostic classifies err and copies the identifying fields of the typed
// error into the diagnostic.
func NewDiagnostic(err error) Diagnostic {
	d := Diagnostic{Message: err.Error(), Err: err}

	var malformed *apperrors.MalformedRowError
	var unknown *apperrors.UnknownAccountConventionError
	var oversell *apperrors.OversellWarning
	var price *apperrors.PriceUnavailableError
	var fx *apperrors.FxUnavailableError

	switch {
	case errors.As(err, &malformed):
		d.Kind = DiagnosticMalformedRow
		d.Row = malformed.Row
	case errors.As(err, &unknown):
		d.Kind = DiagnosticUnknownAccount
		d.Account = unknown.Name
	case errors.As(err, &oversell):
		d.Kind = DiagnosticOversell
		d.Row = oversell.Row
		d.Account = oversell.Account
		d.Security = oversell.Security
	case errors.As(err, &price):
		d.Kind = DiagnosticPriceUnavailable
		d.Security = price.Security
	case errors.As(err, &fx):
		d.Kind = DiagnosticFxUnavailable
		d.Currency = fx.Currency
	}
	return d
}
