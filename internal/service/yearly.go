package service

import (
	"cmp"
	"slices"

	"github.com/ndewijer/portfolio-ledger/internal/accounts"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

type yearlyKey struct {
	year     int
	account  string
	security string
}

// YearlyReturns groups the realized income trace of the accounts selected by
// f by year and by owner, account type, account and security. At every level
// Dividend + SellProfit + Interest = Total.
//
// Buckets are ordered by year, then owner and account type in display order,
// then account and security.
func YearlyReturns(snap *model.Snapshot, f model.Filter) model.YearlyReturns {
	s := newScope(snap, f)

	buckets := map[yearlyKey]*model.IncomeTotals{}
	for _, e := range s.events {
		k := yearlyKey{year: e.Year, account: e.Account, security: e.Security}
		t, ok := buckets[k]
		if !ok {
			t = &model.IncomeTotals{}
			buckets[k] = t
		}
		addIncome(t, e.Kind, s.eventKRW(e))
	}

	type entry struct {
		account model.Account
		ret     model.YearlyReturn
	}
	entries := make([]entry, 0, len(buckets))
	for k, t := range buckets {
		a := s.account(k.account)
		entries = append(entries, entry{account: a, ret: model.YearlyReturn{
			Year:         k.year,
			Owner:        a.Owner.Name,
			AccountType:  a.Type.Name,
			Account:      k.account,
			Security:     k.security,
			IncomeTotals: roundIncome(*t),
		}})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Or(
			cmp.Compare(a.ret.Year, b.ret.Year),
			accounts.Compare(a.account, b.account),
			cmp.Compare(a.ret.Security, b.ret.Security),
		)
	})

	out := model.YearlyReturns{
		Buckets: make([]model.YearlyReturn, len(entries)),
		Years:   []model.YearNode{},
	}
	for i, e := range entries {
		out.Buckets[i] = e.ret
	}
	out.Years = yearTree(out.Buckets)
	return out
}

// yearTree rolls sorted buckets up into year, owner, account type and account levels.
func yearTree(buckets []model.YearlyReturn) []model.YearNode {
	years := []model.YearNode{}
	for _, b := range buckets {
		if n := len(years); n == 0 || years[n-1].Year != b.Year {
			years = append(years, model.YearNode{Year: b.Year})
		}
		y := &years[len(years)-1]
		addTotals(&y.Totals, b.IncomeTotals)

		owner := lastGroup(&y.Owners, b.Owner)
		addTotals(&owner.Totals, b.IncomeTotals)
		typ := lastGroup(&owner.Children, b.AccountType)
		addTotals(&typ.Totals, b.IncomeTotals)
		acct := lastGroup(&typ.Children, b.Account)
		addTotals(&acct.Totals, b.IncomeTotals)
		acct.Securities = append(acct.Securities, b)
	}

	for i := range years {
		years[i].Totals = roundIncome(years[i].Totals)
		roundGroups(years[i].Owners)
	}
	return years
}

func lastGroup(groups *[]model.YearlyGroup, name string) *model.YearlyGroup {
	if n := len(*groups); n == 0 || (*groups)[n-1].Name != name {
		*groups = append(*groups, model.YearlyGroup{Name: name})
	}
	return &(*groups)[len(*groups)-1]
}

func addTotals(dst *model.IncomeTotals, t model.IncomeTotals) {
	dst.Dividend += t.Dividend
	dst.SellProfit += t.SellProfit
	dst.Interest += t.Interest
}

func roundGroups(groups []model.YearlyGroup) {
	for i := range groups {
		groups[i].Totals = roundIncome(groups[i].Totals)
		roundGroups(groups[i].Children)
	}
}
