package apperrors

import (
	"errors"
	"fmt"
)

// Collaborator errors are returned (wrapped) by price and FX lookups.
// The engine treats any of them as a degraded, non-fatal result.
var (
	// ErrPriceUnavailable indicates that no current price could be obtained for a security.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrFxUnavailable indicates that no KRW conversion rate could be obtained for a currency.
	ErrFxUnavailable = errors.New("exchange rate unavailable")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrExchangeRateNotFound indicates no cached record for a currency
	ErrExchangeRateNotFound = errors.New("exchange rate for currency not found")

	// ErrQuoteNotFound indicates no cached quote for a security
	ErrQuoteNotFound = errors.New("quote not found")
)

// Ledger errors describe problems with the input ledger itself.
var (
	// ErrUnrecognizedSchema indicates that the header row does not contain the required columns.
	ErrUnrecognizedSchema = errors.New("unrecognized ledger schema")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidNumber indicates that a numeric cell could not be parsed.
	ErrInvalidNumber = errors.New("invalid number")

	// ErrInvalidDate indicates that a date cell could not be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrNonPositiveShares indicates a trade with a zero or negative share count.
	ErrNonPositiveShares = errors.New("share count must be positive")

	ErrFailedToReadLedger = errors.New("failed to read ledger")
)

// Snapshot errors are returned by the outer surfaces when no ledger is loaded.
var (
	// ErrSnapshotNotLoaded indicates that no ledger snapshot has been loaded yet.
	ErrSnapshotNotLoaded = errors.New("no ledger snapshot loaded")

	ErrFailedToGetPortfolioSummary     = errors.New("failed to get portfolio summary")
	ErrFailedToGetPortfolioPerformance = errors.New("failed to get portfolio performance")
	ErrFailedToReloadLedger            = errors.New("failed to reload ledger")
)

// Request errors.
var (
	// ErrInvalidFilter indicates a malformed filter or listing query parameter.
	ErrInvalidFilter = errors.New("invalid filter")
)

// MalformedRowError reports a ledger row that was skipped because a field its
// action requires could not be parsed.
type MalformedRowError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d: column %q value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

// UnknownAccountConventionError reports an account name that does not follow
// the "{owner} {broker} {account type}" convention. Resolution still succeeds
// with a best-effort decomposition.
type UnknownAccountConventionError struct {
	Name   string
	Tokens int
}

func (e *UnknownAccountConventionError) Error() string {
	return fmt.Sprintf("account %q does not match naming convention (%d tokens)", e.Name, e.Tokens)
}

// OversellWarning reports a sell larger than the shares held at that point in
// the replay. Shares are clamped to zero.
type OversellWarning struct {
	Row       int
	Account   string
	Security  string
	Requested string
	Held      string
}

func (e *OversellWarning) Error() string {
	return fmt.Sprintf("oversell of %s %s in %s: only %s held (row %d)", e.Requested, e.Security, e.Account, e.Held, e.Row)
}

// PriceUnavailableError reports a held security whose current price could not
// be fetched. The holding is valued at zero.
type PriceUnavailableError struct {
	Security string
	Err      error
}

func (e *PriceUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("price unavailable for %s", e.Security)
	}
	return fmt.Sprintf("price unavailable for %s: %v", e.Security, e.Err)
}

func (e *PriceUnavailableError) Unwrap() error { return ErrPriceUnavailable }

// FxUnavailableError reports a currency without a usable KRW rate.
type FxUnavailableError struct {
	Currency string
	Err      error
}

func (e *FxUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exchange rate unavailable for %s", e.Currency)
	}
	return fmt.Sprintf("exchange rate unavailable for %s: %v", e.Currency, e.Err)
}

func (e *FxUnavailableError) Unwrap() error { return ErrFxUnavailable }

// LoadError is the only fatal load failure: nothing in the input could be replayed.
type LoadError struct {
	Reason      string
	SkippedRows int
	Err         error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("ledger load failed: %s (%d rows skipped)", e.Reason, e.SkippedRows)
}

func (e *LoadError) Unwrap() error { return e.Err }
