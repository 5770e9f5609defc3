package accounts_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/portfolio-ledger/internal/accounts"
	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/config"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

func newResolver() *accounts.Resolver {
	return accounts.NewResolver(config.Conventions{
		Owners:       []string{"민호", "지현"},
		Brokers:      []string{"토스", "키움"},
		AccountTypes: []string{"종합매매", "종합매매 해외", "ISA"},
	})
}

// TestNormalize tests cash-account suffix stripping.
//
// WHY: The same account appears as "X 예수금" in the Cash Account column and
// as "X" elsewhere. If they are not normalized to one key, cash and holdings
// of one account are split across two accounts.
func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"민호 토스 종합매매 예수금", "민호 토스 종합매매"},
		{"민호 토스 종합매매 해외 예수", "민호 토스 종합매매 해외"},
		{"  민호   토스  ISA ", "민호 토스 ISA"},
		{"민호 토스 종합매매", "민호 토스 종합매매"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, accounts.Normalize(tt.in))
		})
	}
}

// TestResolver_Resolve tests decomposition of account names.
//
// WHY: Owner, broker and account type drive every roll-up and filter. Names
// that do not follow the convention must still resolve, with the missing
// parts marked unknown and a diagnostic raised, never a hard failure.
func TestResolver_Resolve(t *testing.T) {
	r := newResolver()

	t.Run("full convention with multi-token type", func(t *testing.T) {
		a, err := r.Resolve("민호 토스 종합매매 해외 예수금")

		require.NoError(t, err)
		assert.Equal(t, "민호 토스 종합매매 해외", a.FullName)
		assert.Equal(t, "토스 종합매매 해외", a.DisplayName)
		assert.Equal(t, model.Label{Name: "민호", Known: true, Priority: 1}, a.Owner)
		assert.Equal(t, model.Label{Name: "토스", Known: true, Priority: 1}, a.Broker)
		assert.Equal(t, model.Label{Name: "종합매매 해외", Known: true, Priority: 2}, a.Type)
	})

	t.Run("unknown owner keeps token with fallback priority", func(t *testing.T) {
		a, err := r.Resolve("철수 키움 ISA")

		require.NoError(t, err)
		assert.Equal(t, "철수", a.Owner.Name)
		assert.False(t, a.Owner.Known)
		assert.Equal(t, model.UnknownPriority, a.Owner.Priority)
		assert.True(t, a.Broker.Known)
	})

	t.Run("two tokens leave account type unknown", func(t *testing.T) {
		a, err := r.Resolve("지현 키움")

		var convErr *apperrors.UnknownAccountConventionError
		require.True(t, errors.As(err, &convErr))
		assert.Equal(t, 2, convErr.Tokens)
		assert.Equal(t, "지현", a.Owner.Name)
		assert.Equal(t, "키움", a.Broker.Name)
		assert.Equal(t, model.UnknownLabel, a.Type.Name)
	})

	t.Run("single token leaves broker and type unknown", func(t *testing.T) {
		a, err := r.Resolve("현금")

		require.Error(t, err)
		assert.Equal(t, "현금", a.FullName)
		assert.Equal(t, "현금", a.DisplayName)
		assert.Equal(t, model.UnknownLabel, a.Broker.Name)
		assert.Equal(t, model.UnknownLabel, a.Type.Name)
	})

	t.Run("empty name resolves to unknown everywhere", func(t *testing.T) {
		a, err := r.Resolve("")

		require.Error(t, err)
		assert.Equal(t, model.Unknown(), a.Owner)
		assert.Equal(t, model.Unknown(), a.Broker)
		assert.Equal(t, model.Unknown(), a.Type)
	})
}

// TestCompare tests the canonical display order.
//
// WHY: Dashboards list owners and account types in a fixed priority order.
// Unknown values must sort last without breaking the order of known ones.
func TestCompare(t *testing.T) {
	r := newResolver()
	resolve := func(name string) model.Account {
		a, _ := r.Resolve(name)
		return a
	}

	list := []model.Account{
		resolve("철수 토스 종합매매"),
		resolve("지현 토스 ISA"),
		resolve("민호 키움 ISA"),
		resolve("민호 토스 종합매매"),
		resolve("민호 토스 연금"),
		resolve("지현 토스 종합매매"),
	}

	accounts.Sort(list)

	got := make([]string, len(list))
	for i, a := range list {
		got[i] = a.FullName
	}
	assert.Equal(t, []string{
		"민호 토스 종합매매",
		"민호 키움 ISA",
		"민호 토스 연금",
		"지현 토스 종합매매",
		"지현 토스 ISA",
		"철수 토스 종합매매",
	}, got)
}

// TestBuildHierarchy tests grouping of accounts into the owner/type tree.
//
// WHY: The accounts-detailed view is rendered straight from this tree, so each
// owner and type must appear exactly once and in display order.
func TestBuildHierarchy(t *testing.T) {
	r := newResolver()
	var list []model.Account
	for _, n := range []string{"지현 토스 ISA", "민호 토스 종합매매", "민호 키움 종합매매", "민호 토스 ISA"} {
		a, err := r.Resolve(n)
		require.NoError(t, err)
		list = append(list, a)
	}

	tree := accounts.BuildHierarchy(list)

	require.Len(t, tree, 2)
	assert.Equal(t, "민호", tree[0].Owner.Name)
	require.Len(t, tree[0].Types, 2)
	assert.Equal(t, "종합매매", tree[0].Types[0].Type.Name)
	assert.Len(t, tree[0].Types[0].Accounts, 2)
	assert.Equal(t, "ISA", tree[0].Types[1].Type.Name)
	assert.Equal(t, "지현", tree[1].Owner.Name)
	assert.Equal(t, "지현 토스 ISA", list[0].FullName, "input must not be reordered")
}

// TestOptions tests filter option extraction.
func TestOptions(t *testing.T) {
	r := newResolver()
	var list []model.Account
	for _, n := range []string{"철수 토스 ISA", "지현 키움 ISA", "민호 토스 종합매매"} {
		a, _ := r.Resolve(n)
		list = append(list, a)
	}

	opts := accounts.Options(list)

	assert.Equal(t, []string{"민호", "지현", "철수"}, opts.Owners)
	assert.Equal(t, []string{"토스", "키움"}, opts.Brokers)
	assert.Equal(t, []string{"종합매매", "ISA"}, opts.AccountTypes)
}
