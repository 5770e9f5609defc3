// Package request parses and validates query parameters of the portfolio API.
package request

import (
	"net/url"
	"strings"

	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/validation"
)

// Query parameter names.
const (
	ParamOwner       = "owner"
	ParamBroker      = "broker"
	ParamAccountType = "account_type"
	ParamSecurity    = "security"
	ParamYear        = "year"
	ParamType        = "type"
	ParamFormat      = "format"
)

// ParseFilter extracts the account filter from query parameters. All
// parameters are optional; an empty query selects every account.
//
// The returned error is a *validation.Error and matches apperrors.ErrInvalidFilter.
func ParseFilter(q url.Values) (model.Filter, error) {
	fields := map[string]string{}
	f := model.Filter{
		Owner:       label(q, ParamOwner, fields),
		Broker:      label(q, ParamBroker, fields),
		AccountType: label(q, ParamAccountType, fields),
	}
	if len(fields) > 0 {
		return model.Filter{}, &validation.Error{Fields: fields}
	}
	return f, nil
}

// ParseTransactionFilter extracts the transaction listing filter: the account
// filter plus security, year and type.
//
// Validation rules:
//   - year: a number between validation.MinYear and validation.MaxYear
//   - type: a normalized transaction type (buy, sell, dividend, ...)
func ParseTransactionFilter(q url.Values) (model.TransactionFilter, error) {
	fields := map[string]string{}
	tf := model.TransactionFilter{
		Filter: model.Filter{
			Owner:       label(q, ParamOwner, fields),
			Broker:      label(q, ParamBroker, fields),
			AccountType: label(q, ParamAccountType, fields),
		},
		Security: label(q, ParamSecurity, fields),
	}

	if v := q.Get(ParamYear); v != "" {
		year, err := validation.ValidateYear(v)
		if err != nil {
			fields[ParamYear] = err.Error()
		}
		tf.Year = year
	}
	if v := q.Get(ParamType); v != "" {
		action, err := validation.ValidateAction(v)
		if err != nil {
			fields[ParamType] = err.Error()
		}
		tf.Action = action
	}

	if len(fields) > 0 {
		return model.TransactionFilter{}, &validation.Error{Fields: fields}
	}
	return tf, nil
}

// ParseReportFormat returns the requested report format, "markdown" by default.
func ParseReportFormat(q url.Values) (string, error) {
	format := strings.ToLower(strings.TrimSpace(q.Get(ParamFormat)))
	switch format {
	case "":
		return "markdown", nil
	case "md":
		return "markdown", nil
	}
	if !validation.ValidReportFormats[format] {
		return "", &validation.Error{Fields: map[string]string{ParamFormat: "must be markdown, html or text"}}
	}
	return format, nil
}

func label(q url.Values, param string, fields map[string]string) string {
	v := strings.TrimSpace(q.Get(param))
	if err := validation.ValidateLabel(v); err != nil {
		fields[param] = err.Error()
		return ""
	}
	return v
}
