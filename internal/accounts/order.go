package accounts

import (
	"cmp"
	"slices"

	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// CompareLabels orders labels by priority, then name. Unknown labels share
// model.UnknownPriority and therefore sort after every known label.
func CompareLabels(a, b model.Label) int {
	return cmp.Or(
		cmp.Compare(a.Priority, b.Priority),
		cmp.Compare(a.Name, b.Name),
	)
}

// Compare is the canonical display order of accounts: owner, then account
// type, then full name.
func Compare(a, b model.Account) int {
	return cmp.Or(
		CompareLabels(a.Owner, b.Owner),
		CompareLabels(a.Type, b.Type),
		cmp.Compare(a.FullName, b.FullName),
	)
}

// Sort orders accounts in place using Compare.
func Sort(accounts []model.Account) {
	slices.SortStableFunc(accounts, Compare)
}

// BuildHierarchy groups accounts into the owner, account type, account tree.
// The input is not modified.
func BuildHierarchy(accounts []model.Account) []model.OwnerNode {
	sorted := slices.Clone(accounts)
	Sort(sorted)

	var owners []model.OwnerNode
	for _, a := range sorted {
		if n := len(owners); n == 0 || owners[n-1].Owner.Name != a.Owner.Name {
			owners = append(owners, model.OwnerNode{Owner: a.Owner})
		}
		owner := &owners[len(owners)-1]

		if n := len(owner.Types); n == 0 || owner.Types[n-1].Type.Name != a.Type.Name {
			owner.Types = append(owner.Types, model.AccountTypeNode{Type: a.Type})
		}
		node := &owner.Types[len(owner.Types)-1]
		node.Accounts = append(node.Accounts, a)
	}
	return owners
}

// Options lists the distinct owners, brokers and account types of accounts,
// each ordered by priority then name.
func Options(accounts []model.Account) model.FilterOptions {
	var owners, brokers, types []model.Label
	seen := map[string]bool{}
	add := func(list *[]model.Label, kind string, l model.Label) {
		if seen[kind+"\x00"+l.Name] {
			return
		}
		seen[kind+"\x00"+l.Name] = true
		*list = append(*list, l)
	}
	for _, a := range accounts {
		add(&owners, "owner", a.Owner)
		add(&brokers, "broker", a.Broker)
		add(&types, "type", a.Type)
	}
	return model.FilterOptions{
		Owners:       names(owners),
		Brokers:      names(brokers),
		AccountTypes: names(types),
	}
}

func names(labels []model.Label) []string {
	slices.SortFunc(labels, CompareLabels)
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = l.Name
	}
	return out
}
