package model

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is the immutable result of one ledger replay plus one valuation
// pass. Every view is computed from a Snapshot; reloading or revaluing
// produces a new Snapshot and never modifies an existing one.
type Snapshot struct {
	ID       uuid.UUID `json:"id"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loadedAt"`
	ValuedAt time.Time `json:"valuedAt"`

	Transactions []Transaction `json:"-"`
	Accounts     []Account     `json:"accounts"` // canonical display order
	Positions    []Position    `json:"-"`
	Cash         []CashBalance `json:"-"`
	Events       []IncomeEvent `json:"-"`

	Holdings    []Holding          `json:"holdings"`
	AccountCash []AccountCash      `json:"accountCash"`
	Rates       map[string]float64 `json:"rates"`

	LoadDiagnostics      []Diagnostic `json:"-"`
	ValuationDiagnostics []Diagnostic `json:"-"`
	SkippedRows          int          `json:"skippedRows"`

	accountIndex map[string]int
}

// IndexAccounts builds the name lookup used by Account. It must be called
// once, before the snapshot is shared.
func (s *Snapshot) IndexAccounts() {
	s.accountIndex = make(map[string]int, len(s.Accounts))
	for i, a := range s.Accounts {
		s.accountIndex[a.FullName] = i
	}
}

// Account returns the resolved identity for a normalized account name.
func (s *Snapshot) Account(name string) (Account, bool) {
	if s.accountIndex == nil {
		for _, a := range s.Accounts {
			if a.FullName == name {
				return a, true
			}
		}
		return Account{}, false
	}
	i, ok := s.accountIndex[name]
	if !ok {
		return Account{}, false
	}
	return s.Accounts[i], true
}

// Diagnostics returns load and valuation diagnostics in that order.
func (s *Snapshot) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, 0, len(s.LoadDiagnostics)+len(s.ValuationDiagnostics))
	out = append(out, s.LoadDiagnostics...)
	return append(out, s.ValuationDiagnostics...)
}

// Rate returns the KRW conversion rate recorded for currency at valuation time.
func (s *Snapshot) Rate(currency string) (float64, bool) {
	if currency == "" || currency == DefaultCurrency {
		return 1, true
	}
	r, ok := s.Rates[currency]
	return r, ok && r > 0
}

// WithValuation returns a copy of the snapshot carrying a new valuation. The
// ledger-derived slices are shared with the receiver; they are never written
// after construction.
func (s *Snapshot) WithValuation(holdings []Holding, cash []AccountCash, rates map[string]float64, diags []Diagnostic, at time.Time) *Snapshot {
	next := *s
	next.ID = uuid.New()
	next.Holdings = holdings
	next.AccountCash = cash
	next.Rates = rates
	next.ValuationDiagnostics = diags
	next.ValuedAt = at
	next.IndexAccounts()
	return &next
}
