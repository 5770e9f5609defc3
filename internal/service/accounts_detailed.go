package service

import (
	"cmp"
	"slices"

	"github.com/ndewijer/portfolio-ledger/internal/accounts"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// AccountsDetailed builds the owner, account type, account tree of the
// accounts selected by f, with cash and open holdings at the leaves and
// value totals at every level. Holdings within an account are ordered by
// current value, largest first.
func AccountsDetailed(snap *model.Snapshot, f model.Filter) model.AccountsDetailed {
	s := newScope(snap, f)

	cashByAccount := map[string][]model.AccountCash{}
	for _, c := range s.cash {
		cashByAccount[c.Account] = append(cashByAccount[c.Account], c)
	}
	holdingsByAccount := map[string][]model.Holding{}
	for _, h := range s.holdings {
		holdingsByAccount[h.Account] = append(holdingsByAccount[h.Account], h)
	}

	out := model.AccountsDetailed{Owners: []model.OwnerDetail{}}
	for _, owner := range accounts.BuildHierarchy(s.accounts) {
		od := model.OwnerDetail{Owner: owner.Owner.Name}
		for _, typ := range owner.Types {
			td := model.AccountTypeDetail{AccountType: typ.Type.Name}
			for _, a := range typ.Accounts {
				ad := accountDetail(a, cashByAccount[a.FullName], holdingsByAccount[a.FullName])
				addValueTotals(&td.Totals, ad.Totals)
				td.Accounts = append(td.Accounts, ad)
			}
			addValueTotals(&od.Totals, td.Totals)
			od.Types = append(od.Types, td)
		}
		addValueTotals(&out.Totals, od.Totals)
		out.Owners = append(out.Owners, od)
	}

	out.Totals = roundValueTotals(out.Totals)
	for i := range out.Owners {
		o := &out.Owners[i]
		o.Totals = roundValueTotals(o.Totals)
		for j := range o.Types {
			o.Types[j].Totals = roundValueTotals(o.Types[j].Totals)
		}
	}
	return out
}

func accountDetail(a model.Account, cash []model.AccountCash, holdings []model.Holding) model.AccountDetail {
	holdings = slices.Clone(holdings)
	slices.SortStableFunc(holdings, func(x, y model.Holding) int {
		return cmp.Or(cmp.Compare(y.CurrentValue, x.CurrentValue), cmp.Compare(x.Security, y.Security))
	})

	ad := model.AccountDetail{
		Account:     a.FullName,
		DisplayName: a.DisplayName,
		Broker:      a.Broker.Name,
		Cash:        cash,
		Holdings:    holdings,
	}
	if ad.Cash == nil {
		ad.Cash = []model.AccountCash{}
	}
	if ad.Holdings == nil {
		ad.Holdings = []model.Holding{}
	}

	for _, c := range cash {
		ad.Totals.Cash += c.BalanceKRW
	}
	for _, h := range holdings {
		ad.Totals.StockValue += h.CurrentValue
		ad.Totals.TotalCost += h.TotalCost
		ad.Totals.UnrealizedGainLoss += h.UnrealizedGainLoss
	}
	ad.Totals = roundValueTotals(ad.Totals)
	return ad
}

func addValueTotals(dst *model.ValueTotals, t model.ValueTotals) {
	dst.Cash += t.Cash
	dst.StockValue += t.StockValue
	dst.TotalCost += t.TotalCost
	dst.UnrealizedGainLoss += t.UnrealizedGainLoss
}

func roundValueTotals(t model.ValueTotals) model.ValueTotals {
	t.Cash = round(t.Cash)
	t.StockValue = round(t.StockValue)
	t.TotalCost = round(t.TotalCost)
	t.UnrealizedGainLoss = round(t.UnrealizedGainLoss)
	t.Total = round(t.Cash + t.StockValue)
	return t
}
