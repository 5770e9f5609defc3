package service

import (
	"cmp"
	"slices"

	"github.com/ndewijer/portfolio-ledger/internal/accounts"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// scope is the part of a snapshot selected by a filter. Views are computed
// from a scope only, so a filtered view reuses the replayed positions and
// never re-derives them.
type scope struct {
	snap     *model.Snapshot
	accounts []model.Account
	holdings []model.Holding
	cash     []model.AccountCash
	events   []model.IncomeEvent
}

// newScope selects the accounts matching f and everything that belongs to
// them. A nil snapshot yields an empty scope. Filter values that match no
// account yield an empty scope as well.
func newScope(snap *model.Snapshot, f model.Filter) scope {
	s := scope{snap: snap}
	if snap == nil {
		return s
	}
	if f.IsZero() {
		s.accounts = snap.Accounts
		s.holdings = snap.Holdings
		s.cash = snap.AccountCash
		s.events = snap.Events
		return s
	}

	in := map[string]bool{}
	for _, a := range snap.Accounts {
		if f.Matches(a) {
			in[a.FullName] = true
			s.accounts = append(s.accounts, a)
		}
	}
	for _, h := range snap.Holdings {
		if in[h.Account] {
			s.holdings = append(s.holdings, h)
		}
	}
	for _, c := range snap.AccountCash {
		if in[c.Account] {
			s.cash = append(s.cash, c)
		}
	}
	for _, e := range snap.Events {
		if in[e.Account] {
			s.events = append(s.events, e)
		}
	}
	return s
}

// eventKRW converts an income event at the snapshot's valuation rates.
// Events in a currency without a rate count as zero; the missing rate is
// already reported as a valuation diagnostic.
func (s scope) eventKRW(e model.IncomeEvent) float64 {
	rate, ok := s.snap.Rate(normalizeCurrency(e.Currency))
	if !ok {
		return 0
	}
	return toKRW(e.Amount, rate)
}

func (s scope) account(name string) model.Account {
	if s.snap == nil {
		return model.Account{FullName: name, Owner: model.Unknown(), Broker: model.Unknown(), Type: model.Unknown()}
	}
	a, ok := s.snap.Account(name)
	if !ok {
		return model.Account{FullName: name, DisplayName: name, Owner: model.Unknown(), Broker: model.Unknown(), Type: model.Unknown()}
	}
	return a
}

// income totals the income events of one account, or of the whole scope when account is empty.
func (s scope) income(account string) model.IncomeTotals {
	var t model.IncomeTotals
	for _, e := range s.events {
		if account != "" && e.Account != account {
			continue
		}
		addIncome(&t, e.Kind, s.eventKRW(e))
	}
	return roundIncome(t)
}

func addIncome(t *model.IncomeTotals, kind model.IncomeKind, v float64) {
	switch kind {
	case model.IncomeDividend:
		t.Dividend += v
	case model.IncomeSellProfit:
		t.SellProfit += v
	case model.IncomeInterest:
		t.Interest += v
	}
}

func roundIncome(t model.IncomeTotals) model.IncomeTotals {
	t.Dividend = round(t.Dividend)
	t.SellProfit = round(t.SellProfit)
	t.Interest = round(t.Interest)
	t.Total = round(t.Dividend + t.SellProfit + t.Interest)
	return t
}

// FilterOptions returns the owners, brokers and account types present in the
// snapshot, in display order.
func FilterOptions(snap *model.Snapshot) model.FilterOptions {
	if snap == nil {
		return model.FilterOptions{Owners: []string{}, Brokers: []string{}, AccountTypes: []string{}}
	}
	return accounts.Options(snap.Accounts)
}

// Transactions lists the transactions of the accounts selected by f, newest
// first; same-day rows are ordered by account and then file order.
func Transactions(snap *model.Snapshot, f model.TransactionFilter) []model.TransactionRow {
	s := newScope(snap, f.Filter)
	rows := []model.TransactionRow{}
	if snap == nil {
		return rows
	}
	in := map[string]bool{}
	for _, a := range s.accounts {
		in[a.FullName] = true
	}

	txs := make([]model.Transaction, 0, len(snap.Transactions))
	for _, tx := range snap.Transactions {
		switch {
		case !in[tx.Account] && !(f.Filter.IsZero() && tx.Account == ""):
			continue
		case f.Security != "" && tx.Security != f.Security:
			continue
		case f.Year != 0 && tx.Year() != f.Year:
			continue
		case f.Action != "" && tx.Action != f.Action:
			continue
		}
		txs = append(txs, tx)
	}
	slices.SortStableFunc(txs, func(a, b model.Transaction) int {
		return cmp.Or(
			b.Date.Compare(a.Date),
			cmp.Compare(a.Account, b.Account),
			cmp.Compare(a.Row, b.Row),
		)
	})

	for _, tx := range txs {
		a := s.account(tx.Account)
		rows = append(rows, model.TransactionRow{
			Date:          tx.Date.Format("2006-01-02"),
			Type:          string(tx.Action),
			Account:       tx.Account,
			Owner:         a.Owner.Name,
			AccountType:   a.Type.Name,
			Security:      tx.Security,
			Shares:        tx.Shares.InexactFloat64(),
			UnitPrice:     roundDecimal(tx.UnitPrice),
			Amount:        roundDecimal(tx.Amount),
			Fees:          roundDecimal(tx.Fees),
			Taxes:         roundDecimal(tx.Taxes),
			NetValue:      roundDecimal(tx.NetValue),
			Currency:      tx.Currency,
			OffsetAccount: tx.OffsetAccount,
			Note:          tx.Note,
		})
	}
	return rows
}
