package model

// UnknownLabel is the display name used for an owner, broker or account type
// that could not be derived from an account name.
const UnknownLabel = "기타"

// UnknownPriority sorts unrecognized owners and account types after every known one.
const UnknownPriority = 999

// Label is one component of an account identity. Known is false when the
// value is not part of the configured naming conventions; such labels keep
// the raw token as Name (or UnknownLabel when there was no token) and sort
// with UnknownPriority.
type Label struct {
	Name     string `json:"name"`
	Known    bool   `json:"known"`
	Priority int    `json:"priority"`
}

// Unknown returns the fallback label used when a component is missing.
func Unknown() Label {
	return Label{Name: UnknownLabel, Priority: UnknownPriority}
}

// Account is the structured identity derived from an account name.
// Accounts are keyed by FullName.
type Account struct {
	FullName    string `json:"fullName"`
	DisplayName string `json:"displayName"`
	Owner       Label  `json:"owner"`
	Broker      Label  `json:"broker"`
	Type        Label  `json:"accountType"`
}

// Filter selects accounts by owner, broker and account type. Empty fields do
// not constrain the selection; the zero Filter selects every account.
type Filter struct {
	Owner       string `json:"owner,omitempty"`
	Broker      string `json:"broker,omitempty"`
	AccountType string `json:"accountType,omitempty"`
}

// IsZero reports whether the filter has no predicates.
func (f Filter) IsZero() bool {
	return f.Owner == "" && f.Broker == "" && f.AccountType == ""
}

// Matches reports whether the account satisfies every set predicate.
func (f Filter) Matches(a Account) bool {
	if f.Owner != "" && f.Owner != a.Owner.Name {
		return false
	}
	if f.Broker != "" && f.Broker != a.Broker.Name {
		return false
	}
	if f.AccountType != "" && f.AccountType != a.Type.Name {
		return false
	}
	return true
}

// FilterOptions lists the distinct values that can be used in a Filter, in
// canonical display order.
type FilterOptions struct {
	Owners       []string `json:"owners"`
	Brokers      []string `json:"brokers"`
	AccountTypes []string `json:"accountTypes"`
}

// OwnerNode is the root level of the account hierarchy.
type OwnerNode struct {
	Owner Label             `json:"owner"`
	Types []AccountTypeNode `json:"accountTypes"`
}

// AccountTypeNode groups the accounts of one owner sharing an account type.
type AccountTypeNode struct {
	Type     Label     `json:"accountType"`
	Accounts []Account `json:"accounts"`
}
