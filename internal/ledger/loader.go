package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/portfolio-ledger/internal/accounts"
	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// Column names of the ledger export. Header matching ignores case and
// surrounding whitespace.
const (
	ColDate          = "Date"
	ColType          = "Type"
	ColSecurity      = "Security"
	ColShares        = "Shares"
	ColQuote         = "Quote"
	ColAmount        = "Amount"
	ColFees          = "Fees"
	ColTaxes         = "Taxes"
	ColNetValue      = "Net Transaction Value"
	ColCashAccount   = "Cash Account"
	ColOffsetAccount = "Offset Account"
	ColNote          = "Note"
	ColSource        = "Source"
	ColCurrency      = "Transaction Currency"
)

var requiredColumns = []string{ColDate, ColType, ColCashAccount}

var columnAliases = map[string]string{
	"price":     ColQuote,
	"net value": ColNetValue,
	"account":   ColCashAccount,
	"currency":  ColCurrency,
}

// Result is the output of Load.
type Result struct {
	Transactions []model.Transaction
	Diagnostics  []model.Diagnostic
	TotalRows    int
	SkippedRows  int
}

type schema map[string]int

func (s schema) cell(row []string, col string) string {
	i, ok := s[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readSchema(header []string) (schema, []string) {
	known := []string{
		ColDate, ColType, ColSecurity, ColShares, ColQuote, ColAmount, ColFees, ColTaxes,
		ColNetValue, ColCashAccount, ColOffsetAccount, ColNote, ColSource, ColCurrency,
	}
	byLower := make(map[string]string, len(known)+len(columnAliases))
	for _, c := range known {
		byLower[strings.ToLower(c)] = c
	}
	for alias, c := range columnAliases {
		byLower[alias] = c
	}

	s := schema{}
	for i, h := range header {
		col, ok := byLower[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, dup := s[col]; !dup {
			s[col] = i
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := s[c]; !ok {
			missing = append(missing, c)
		}
	}
	return s, missing
}

// Load reads every row of src and returns the parsed transactions sorted by
// date, keeping the original row order for equal dates.
//
// Rows whose action needs a field that is missing or unparsable are skipped
// and reported as MalformedRowError diagnostics. The only error returned is a
// *apperrors.LoadError, when the source cannot be read or its header row lacks
// a required column. An empty source yields an empty Result.
func Load(ctx context.Context, src RowSource) (Result, error) {
	rows, err := src.ReadRows(ctx)
	if err != nil {
		return Result{}, &apperrors.LoadError{
			Reason: err.Error(),
			Err:    fmt.Errorf("%w: %w", apperrors.ErrFailedToReadLedger, err),
		}
	}
	if len(rows) == 0 {
		return Result{}, nil
	}

	cols, missing := readSchema(rows[0])
	data := rows[1:]
	if len(missing) > 0 {
		return Result{}, &apperrors.LoadError{
			Reason:      "missing columns: " + strings.Join(missing, ", "),
			SkippedRows: len(data),
			Err:         apperrors.ErrUnrecognizedSchema,
		}
	}

	res := Result{TotalRows: len(data)}
	for i, row := range data {
		if blank(row) {
			res.TotalRows--
			continue
		}
		// Row numbers are 1-based and count the header, matching a spreadsheet view.
		tx, warnings, err := parseRow(cols, row, i+2)
		for _, w := range warnings {
			res.Diagnostics = append(res.Diagnostics, model.NewDiagnostic(w))
		}
		if err != nil {
			res.SkippedRows++
			res.Diagnostics = append(res.Diagnostics, model.NewDiagnostic(err))
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}

	slices.SortStableFunc(res.Transactions, func(a, b model.Transaction) int {
		return a.Date.Compare(b.Date)
	})
	return res, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseRow builds one transaction. A non-nil error means the row is skipped;
// warnings describe optional cells that were ignored.
func parseRow(cols schema, row []string, n int) (model.Transaction, []error, error) {
	malformed := func(col, value string, err error) error {
		return &apperrors.MalformedRowError{Row: n, Column: col, Value: value, Err: err}
	}

	tx := model.Transaction{
		Row:           n,
		RawType:       cols.cell(row, ColType),
		Security:      cols.cell(row, ColSecurity),
		AccountName:   cols.cell(row, ColCashAccount),
		OffsetAccount: accounts.Normalize(cols.cell(row, ColOffsetAccount)),
		Note:          cols.cell(row, ColNote),
		Source:        cols.cell(row, ColSource),
		Currency:      strings.ToUpper(cols.cell(row, ColCurrency)),
	}
	tx.Action = parseAction(tx.RawType)
	tx.Account = accounts.Normalize(tx.AccountName)

	date, err := parseDate(cols.cell(row, ColDate))
	if err != nil {
		return tx, nil, malformed(ColDate, cols.cell(row, ColDate), err)
	}
	tx.Date = date

	if tx.Account == "" && tx.Action != model.ActionOther {
		return tx, nil, malformed(ColCashAccount, "", apperrors.ErrMissingRequiredField)
	}

	var warnings []error
	numbers := []struct {
		col      string
		dst      *decimal.Decimal
		required bool
	}{
		{ColShares, &tx.Shares, tx.Action.IsTrade()},
		{ColQuote, &tx.UnitPrice, false},
		{ColAmount, &tx.Amount, amountRequired(tx.Action)},
		{ColFees, &tx.Fees, false},
		{ColTaxes, &tx.Taxes, false},
		{ColNetValue, &tx.NetValue, false},
	}
	for _, f := range numbers {
		raw := cols.cell(row, f.col)
		v, currency, empty, err := parseNumber(raw)
		switch {
		case err != nil && f.required:
			return tx, nil, malformed(f.col, raw, err)
		case err != nil:
			warnings = append(warnings, malformed(f.col, raw, fmt.Errorf("ignored: %w", err)))
			continue
		case empty && f.required:
			return tx, nil, malformed(f.col, raw, apperrors.ErrMissingRequiredField)
		}
		*f.dst = v
		if tx.Currency == "" && currency != "" {
			tx.Currency = currency
		}
	}
	if tx.Currency == "" {
		tx.Currency = model.DefaultCurrency
	}

	if chargeAction(tx.Action) && tx.Amount.IsZero() && tx.Fees.IsZero() && tx.Taxes.IsZero() {
		return tx, nil, malformed(ColAmount, cols.cell(row, ColAmount), apperrors.ErrMissingRequiredField)
	}

	if tx.Action.IsTrade() {
		if tx.Security == "" {
			return tx, nil, malformed(ColSecurity, "", apperrors.ErrMissingRequiredField)
		}
		if !tx.Shares.IsPositive() {
			return tx, nil, malformed(ColShares, cols.cell(row, ColShares), apperrors.ErrNonPositiveShares)
		}
		if tx.Gross().IsZero() {
			return tx, nil, malformed(ColAmount, cols.cell(row, ColAmount),
				errors.Join(apperrors.ErrMissingRequiredField, fmt.Errorf("neither %s nor %s is set", ColAmount, ColQuote)))
		}
		if tx.UnitPrice.IsZero() {
			tx.UnitPrice = tx.Amount.Div(tx.Shares)
		}
	}
	return tx, warnings, nil
}

// amountRequired reports whether rows of action are meaningless without an Amount.
func amountRequired(a model.Action) bool {
	switch a {
	case model.ActionDividend, model.ActionInterest, model.ActionDeposit,
		model.ActionWithdrawal, model.ActionTransferOut, model.ActionTransferIn:
		return true
	}
	return false
}

// chargeAction reports whether the row carries its value in Amount or in the
// Fees and Taxes columns.
func chargeAction(a model.Action) bool {
	switch a {
	case model.ActionFee, model.ActionFeeRefund, model.ActionTax, model.ActionTaxRefund:
		return true
	}
	return false
}
