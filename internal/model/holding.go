package model

// Holding is an open position valued at the current market price. Totals
// (TotalCost, CurrentValue, income and gain/loss figures) are in KRW;
// AverageCost and CurrentPrice stay in the position's trading currency.
//
// When no price could be obtained PriceAvailable is false and CurrentValue,
// UnrealizedGainLoss and UnrealizedGainLossRate are zero.
type Holding struct {
	Account                string  `json:"account"`
	DisplayName            string  `json:"displayName"`
	Owner                  string  `json:"owner"`
	Broker                 string  `json:"broker"`
	AccountType            string  `json:"accountType"`
	Security               string  `json:"security"`
	Currency               string  `json:"currency"`
	Shares                 float64 `json:"shares"`
	AverageCost            float64 `json:"averageCost"`
	CurrentPrice           float64 `json:"currentPrice"`
	FxRate                 float64 `json:"fxRate"`
	TotalCost              float64 `json:"totalCost"`
	CurrentValue           float64 `json:"currentValue"`
	UnrealizedGainLoss     float64 `json:"unrealizedGainLoss"`
	UnrealizedGainLossRate float64 `json:"unrealizedGainLossRate"`
	RealizedGainLoss       float64 `json:"realizedGainLoss"`
	Dividends              float64 `json:"dividends"`
	Interest               float64 `json:"interest"`
	PriceAvailable         bool    `json:"priceAvailable"`
	Oversold               bool    `json:"oversold"`
}

// AccountCash is the KRW value of one account's cash in one currency.
type AccountCash struct {
	Account       string  `json:"account"`
	Currency      string  `json:"currency"`
	Balance       float64 `json:"balance"`
	BalanceKRW    float64 `json:"balanceKrw"`
	RateAvailable bool    `json:"rateAvailable"`
}

// Quote is a current price reported by a price lookup.
type Quote struct {
	Security string  `json:"security"`
	Symbol   string  `json:"symbol"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}
