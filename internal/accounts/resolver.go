// Package accounts derives owner, broker and account type from free-text
// account names and orders accounts for display.
//
// Account names follow the grammar
//
//	name   = owner SP broker SP type [ SP suffix ]
//	type   = token { SP token }
//	suffix = "예수금" | "예수"
//
// for example "민호 토스 종합매매 해외 예수금". Names with fewer tokens are
// resolved best-effort: missing components become model.UnknownLabel and
// Resolve reports an UnknownAccountConventionError alongside the result.
package accounts

import (
	"regexp"
	"strings"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/config"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

var cashSuffix = regexp.MustCompile(`\s*(예수금|예수)\s*$`)

// Normalize strips the cash-account suffix and collapses whitespace so that
// "민호 토스 종합매매 예수금" and "민호 토스 종합매매" name the same account.
func Normalize(name string) string {
	name = cashSuffix.ReplaceAllString(strings.TrimSpace(name), "")
	return strings.Join(strings.Fields(name), " ")
}

// Resolver maps account names to structured identities using a fixed set of
// known owners, brokers and account types. It holds no mutable state and is
// safe for concurrent use.
type Resolver struct {
	owners  map[string]int
	brokers map[string]int
	types   map[string]int
}

// NewResolver creates a Resolver from naming conventions. Priorities follow
// list order starting at 1.
func NewResolver(c config.Conventions) *Resolver {
	return &Resolver{
		owners:  priorities(c.Owners),
		brokers: priorities(c.Brokers),
		types:   priorities(c.AccountTypes),
	}
}

func priorities(values []string) map[string]int {
	m := make(map[string]int, len(values))
	for i, v := range values {
		if _, dup := m[v]; !dup {
			m[v] = i + 1
		}
	}
	return m
}

func label(name string, known map[string]int) model.Label {
	if name == "" {
		return model.Unknown()
	}
	if p, ok := known[name]; ok {
		return model.Label{Name: name, Known: true, Priority: p}
	}
	return model.Label{Name: name, Priority: model.UnknownPriority}
}

// Resolve decomposes an account name. The returned account is always usable;
// a non-nil error is an *apperrors.UnknownAccountConventionError describing a
// best-effort decomposition and should be recorded as a diagnostic.
func (r *Resolver) Resolve(name string) (model.Account, error) {
	full := Normalize(name)
	tokens := strings.Fields(full)

	account := model.Account{
		FullName: full,
		Owner:    model.Unknown(),
		Broker:   model.Unknown(),
		Type:     model.Unknown(),
	}

	switch {
	case len(tokens) >= 3:
		account.Owner = label(tokens[0], r.owners)
		account.Broker = label(tokens[1], r.brokers)
		account.Type = label(strings.Join(tokens[2:], " "), r.types)
	case len(tokens) == 2:
		account.Owner = label(tokens[0], r.owners)
		account.Broker = label(tokens[1], r.brokers)
	case len(tokens) == 1:
		account.Owner = label(tokens[0], r.owners)
	}

	account.DisplayName = full
	if len(tokens) > 1 {
		account.DisplayName = strings.Join(tokens[1:], " ")
	}

	if len(tokens) < 3 {
		return account, &apperrors.UnknownAccountConventionError{Name: name, Tokens: len(tokens)}
	}
	return account, nil
}
