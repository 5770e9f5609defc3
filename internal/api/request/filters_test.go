package request

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/model"
	"github.com/ndewijer/portfolio-ledger/internal/validation"
)

func TestParseFilter(t *testing.T) {
	t.Run("empty query selects every account", func(t *testing.T) {
		f, err := ParseFilter(url.Values{})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !f.IsZero() {
			t.Errorf("Expected zero filter, got %+v", f)
		}
	})

	t.Run("trims values", func(t *testing.T) {
		f, err := ParseFilter(url.Values{"owner": {" 민호 "}, "broker": {"토스"}, "account_type": {"종합매매 해외"}})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		want := model.Filter{Owner: "민호", Broker: "토스", AccountType: "종합매매 해외"}
		if f != want {
			t.Errorf("Expected %+v, got %+v", want, f)
		}
	})

	t.Run("unknown values are accepted", func(t *testing.T) {
		f, err := ParseFilter(url.Values{"owner": {"없는사람"}})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if f.Owner != "없는사람" {
			t.Errorf("Expected owner to be kept, got %q", f.Owner)
		}
	})

	t.Run("control characters are rejected", func(t *testing.T) {
		_, err := ParseFilter(url.Values{"broker": {"토스\n"}, "owner": {"a\x00b"}})
		if !errors.Is(err, apperrors.ErrInvalidFilter) {
			t.Fatalf("Expected ErrInvalidFilter, got %v", err)
		}
		var verr *validation.Error
		if !errors.As(err, &verr) {
			t.Fatalf("Expected *validation.Error, got %T", err)
		}
		if _, ok := verr.Fields["owner"]; !ok {
			t.Errorf("Expected owner field error, got %v", verr.Fields)
		}
	})

	t.Run("overlong values are rejected", func(t *testing.T) {
		_, err := ParseFilter(url.Values{"owner": {strings.Repeat("x", validation.MaxLabelLength+1)}})
		if !errors.Is(err, apperrors.ErrInvalidFilter) {
			t.Errorf("Expected ErrInvalidFilter, got %v", err)
		}
	})
}

func TestParseTransactionFilter(t *testing.T) {
	t.Run("all parameters", func(t *testing.T) {
		tf, err := ParseTransactionFilter(url.Values{
			"owner":    {"지현"},
			"security": {"삼성전자"},
			"year":     {"2024"},
			"type":     {"Dividend"},
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if tf.Owner != "지현" || tf.Security != "삼성전자" {
			t.Errorf("Unexpected filter %+v", tf)
		}
		if tf.Year != 2024 {
			t.Errorf("Expected year 2024, got %d", tf.Year)
		}
		if tf.Action != model.ActionDividend {
			t.Errorf("Expected action dividend, got %q", tf.Action)
		}
	})

	tests := []struct {
		name  string
		query url.Values
		field string
	}{
		{"non-numeric year", url.Values{"year": {"twenty"}}, "year"},
		{"year out of range", url.Values{"year": {"24"}}, "year"},
		{"unknown type", url.Values{"type": {"split"}}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTransactionFilter(tt.query)

			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("Expected *validation.Error, got %v", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("Expected %s field error, got %v", tt.field, verr.Fields)
			}
			if !errors.Is(err, apperrors.ErrInvalidFilter) {
				t.Errorf("Expected ErrInvalidFilter")
			}
		})
	}
}

func TestParseReportFormat(t *testing.T) {
	for in, want := range map[string]string{"": "markdown", "md": "markdown", "HTML": "html", "text": "text"} {
		got, err := ParseReportFormat(url.Values{"format": {in}})
		if err != nil {
			t.Errorf("format %q: unexpected error %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("format %q: expected %q, got %q", in, want, got)
		}
	}

	if _, err := ParseReportFormat(url.Values{"format": {"pdf"}}); !errors.Is(err, apperrors.ErrInvalidFilter) {
		t.Errorf("Expected ErrInvalidFilter for pdf, got %v", err)
	}
}
