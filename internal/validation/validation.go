package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// MaxLabelLength bounds owner, broker, account type and security query values.
const MaxLabelLength = 100

// Year bounds accepted by the transaction listing.
const (
	MinYear = 1900
	MaxYear = 9999
)

// ValidActions are the transaction types accepted as a listing filter.
var ValidActions = map[model.Action]bool{
	model.ActionBuy:         true,
	model.ActionSell:        true,
	model.ActionDividend:    true,
	model.ActionInterest:    true,
	model.ActionDeposit:     true,
	model.ActionWithdrawal:  true,
	model.ActionTransferOut: true,
	model.ActionTransferIn:  true,
	model.ActionFee:         true,
	model.ActionFeeRefund:   true,
	model.ActionTax:         true,
	model.ActionTaxRefund:   true,
	model.ActionOther:       true,
}

// ValidReportFormats are the output formats of the portfolio report.
var ValidReportFormats = map[string]bool{
	"markdown": true, "html": true, "text": true,
}

// ValidateLabel checks a free-text filter value. Values that match no account
// are valid; they select an empty scope.
func ValidateLabel(v string) error {
	if len(v) > MaxLabelLength {
		return fmt.Errorf("must be at most %d bytes", MaxLabelLength)
	}
	if strings.IndexFunc(v, unicode.IsControl) >= 0 {
		return fmt.Errorf("must not contain control characters")
	}
	return nil
}

// ValidateYear parses a calendar year.
func ValidateYear(v string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("must be a number")
	}
	if year < MinYear || year > MaxYear {
		return 0, fmt.Errorf("must be between %d and %d", MinYear, MaxYear)
	}
	return year, nil
}

// ValidateAction parses a normalized transaction type such as "buy" or "transfer_out".
func ValidateAction(v string) (model.Action, error) {
	a := model.Action(strings.ToLower(strings.TrimSpace(v)))
	if !ValidActions[a] {
		return "", fmt.Errorf("unknown transaction type %q", v)
	}
	return a, nil
}
