package yahoo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
	"github.com/ndewijer/portfolio-ledger/internal/model"
)

// QuoteService resolves ledger security names to Yahoo symbols and returns
// their latest price. It satisfies service.PriceLookup.
type QuoteService struct {
	client Client
	log    zerolog.Logger
}

// NewQuoteService creates a QuoteService on top of client.
func NewQuoteService(client Client, log zerolog.Logger) *QuoteService {
	return &QuoteService{
		client: client,
		log:    log.With().Str("component", "yahoo").Logger(),
	}
}

// Price returns the latest price of security in the currency Yahoo quotes it in.
// Every failure wraps apperrors.ErrPriceUnavailable.
func (s *QuoteService) Price(ctx context.Context, security string) (model.Quote, error) {
	symbol, ok := Symbol(security)
	if !ok {
		return model.Quote{}, fmt.Errorf("%w: %w: no symbol for %q",
			apperrors.ErrPriceUnavailable, apperrors.ErrSymbolNotFound, security)
	}

	resp, err := s.client.QueryFiveDaySymbol(ctx, symbol)
	if err != nil {
		s.log.Debug().Err(err).Str("security", security).Str("symbol", symbol).Msg("Quote request failed")
		return model.Quote{}, fmt.Errorf("%w: %s: %w", apperrors.ErrPriceUnavailable, symbol, err)
	}

	chart, err := ParseChart(resp)
	if err != nil {
		return model.Quote{}, fmt.Errorf("%w: %s: %w", apperrors.ErrPriceUnavailable, symbol, err)
	}
	price, ok := chart.LastPrice()
	if !ok {
		return model.Quote{}, fmt.Errorf("%w: %s: no price in chart", apperrors.ErrPriceUnavailable, symbol)
	}

	return model.Quote{
		Security: security,
		Symbol:   symbol,
		Price:    price,
		Currency: chart.Currency,
	}, nil
}
