package model

// IncomeTotals is realized income split by kind. Total is always the sum of the three parts.
type IncomeTotals struct {
	Dividend   float64 `json:"dividend"`
	SellProfit float64 `json:"sellProfit"`
	Interest   float64 `json:"interest"`
	Total      float64 `json:"total"`
}

// PortfolioSummary is the totals view of a (possibly filtered) portfolio.
// All monetary values are in KRW and rounded to two decimal places.
//
// TotalInvestment and UnrealizedGainLoss only include holdings with an
// available price, so ReturnRate is not diluted by holdings that could not be
// valued. TotalCostBasis includes every open holding.
type PortfolioSummary struct {
	TotalAssets        float64 `json:"totalAssets"`
	TotalCash          float64 `json:"totalCash"`
	TotalStockValue    float64 `json:"totalStockValue"`
	TotalCostBasis     float64 `json:"totalCostBasis"`
	TotalInvestment    float64 `json:"totalInvestment"`
	UnrealizedGainLoss float64 `json:"unrealizedGainLoss"`
	ReturnRate         float64 `json:"returnRate"`
	CashRatio          float64 `json:"cashRatio"`
	StockRatio         float64 `json:"stockRatio"`

	TotalHoldings  int `json:"totalHoldings"`
	PricedHoldings int `json:"pricedHoldings"`
	GainHoldings   int `json:"gainHoldings"`
	LossHoldings   int `json:"lossHoldings"`
	AccountCount   int `json:"accountCount"`

	Income IncomeTotals `json:"income"`

	ByOwner       []AllocationGroup `json:"byOwner"`
	ByAccountType []AllocationGroup `json:"byAccountType"`
}

// AllocationGroup is the share of total assets held under one owner or account type.
type AllocationGroup struct {
	Name       string  `json:"name"`
	Cash       float64 `json:"cash"`
	StockValue float64 `json:"stockValue"`
	Total      float64 `json:"total"`
	Ratio      float64 `json:"ratio"`
}

// HoldingPerformance is one ranked entry of the performance and risk views.
type HoldingPerformance struct {
	Security           string  `json:"security"`
	Account            string  `json:"account"`
	DisplayName        string  `json:"displayName"`
	Owner              string  `json:"owner"`
	ReturnRate         float64 `json:"returnRate"`
	UnrealizedGainLoss float64 `json:"unrealizedGainLoss"`
	CurrentValue       float64 `json:"currentValue"`
	TotalCost          float64 `json:"totalCost"`
}

// AccountPerformance aggregates the holdings and income of one account.
// LifetimeReturn is realized gains plus dividends plus interest plus the
// unrealized gain of the priced holdings.
type AccountPerformance struct {
	Account            string  `json:"account"`
	DisplayName        string  `json:"displayName"`
	Owner              string  `json:"owner"`
	Broker             string  `json:"broker"`
	AccountType        string  `json:"accountType"`
	Holdings           int     `json:"holdings"`
	Cash               float64 `json:"cash"`
	TotalCost          float64 `json:"totalCost"`
	CurrentValue       float64 `json:"currentValue"`
	UnrealizedGainLoss float64 `json:"unrealizedGainLoss"`
	ReturnRate         float64 `json:"returnRate"`
	RealizedGainLoss   float64 `json:"realizedGainLoss"`
	Dividends          float64 `json:"dividends"`
	Interest           float64 `json:"interest"`
	LifetimeReturn     float64 `json:"lifetimeReturn"`
}

// PortfolioPerformance ranks holdings by return rate.
type PortfolioPerformance struct {
	TopPerformers      []HoldingPerformance `json:"topPerformers"`
	BottomPerformers   []HoldingPerformance `json:"bottomPerformers"`
	AccountPerformance []AccountPerformance `json:"accountPerformance"`
}

// ConcentrationEntry is one of the largest holdings by current value.
type ConcentrationEntry struct {
	Security     string  `json:"security"`
	Account      string  `json:"account"`
	CurrentValue float64 `json:"currentValue"`
	Weight       float64 `json:"weight"`
}

// PortfolioRisk describes how gains are distributed and how concentrated the portfolio is.
// MaxGain and MaxLoss are nil when no holding is in profit or at a loss.
type PortfolioRisk struct {
	TotalHoldings      int                  `json:"totalHoldings"`
	PricedHoldings     int                  `json:"pricedHoldings"`
	GainHoldings       int                  `json:"gainHoldings"`
	LossHoldings       int                  `json:"lossHoldings"`
	WinRate            float64              `json:"winRate"`
	TotalGain          float64              `json:"totalGain"`
	TotalLoss          float64              `json:"totalLoss"`
	MaxGain            *HoldingPerformance  `json:"maxGain"`
	MaxLoss            *HoldingPerformance  `json:"maxLoss"`
	ConcentrationRatio float64              `json:"concentrationRatio"`
	TopHoldings        []ConcentrationEntry `json:"topHoldings"`
	HHI                float64              `json:"hhi"`
	ReturnRateMean     float64              `json:"returnRateMean"`
	ReturnRateStdDev   float64              `json:"returnRateStdDev"`
}

// YearlyReturn is realized income for one (year, owner, account type,
// account, security) bucket.
type YearlyReturn struct {
	Year        int    `json:"year"`
	Owner       string `json:"owner"`
	AccountType string `json:"accountType"`
	Account     string `json:"account"`
	Security    string `json:"security"`
	IncomeTotals
}

// YearlyReturns is the flat bucket list plus the same data rolled up by year,
// owner, account type and account.
type YearlyReturns struct {
	Buckets []YearlyReturn `json:"buckets"`
	Years   []YearNode     `json:"years"`
}

// YearNode is the root of the yearly returns tree.
type YearNode struct {
	Year   int           `json:"year"`
	Totals IncomeTotals  `json:"totals"`
	Owners []YearlyGroup `json:"owners"`
}

// YearlyGroup is a named level of the yearly returns tree. Children is set on
// owner and account-type levels; Securities on the account level.
type YearlyGroup struct {
	Name       string         `json:"name"`
	Totals     IncomeTotals   `json:"totals"`
	Children   []YearlyGroup  `json:"children,omitempty"`
	Securities []YearlyReturn `json:"securities,omitempty"`
}

// ValueTotals are the KRW totals carried at every level of the accounts tree.
type ValueTotals struct {
	Cash               float64 `json:"cash"`
	StockValue         float64 `json:"stockValue"`
	TotalCost          float64 `json:"totalCost"`
	UnrealizedGainLoss float64 `json:"unrealizedGainLoss"`
	Total              float64 `json:"total"`
}

// AccountsDetailed is the owner, account type, account, holding tree.
type AccountsDetailed struct {
	Owners []OwnerDetail `json:"owners"`
	Totals ValueTotals   `json:"totals"`
}

// OwnerDetail is one owner in the accounts tree.
type OwnerDetail struct {
	Owner  string              `json:"owner"`
	Totals ValueTotals         `json:"totals"`
	Types  []AccountTypeDetail `json:"accountTypes"`
}

// AccountTypeDetail is one account type of an owner.
type AccountTypeDetail struct {
	AccountType string          `json:"accountType"`
	Totals      ValueTotals     `json:"totals"`
	Accounts    []AccountDetail `json:"accounts"`
}

// AccountDetail is one account with its cash and open holdings.
type AccountDetail struct {
	Account     string        `json:"account"`
	DisplayName string        `json:"displayName"`
	Broker      string        `json:"broker"`
	Totals      ValueTotals   `json:"totals"`
	Cash        []AccountCash `json:"cash"`
	Holdings    []Holding     `json:"holdings"`
}

// Dashboard bundles the views served together to a dashboard.
type Dashboard struct {
	SnapshotID    string               `json:"snapshotId"`
	Summary       PortfolioSummary     `json:"summary"`
	Performance   PortfolioPerformance `json:"performance"`
	Risk          PortfolioRisk        `json:"risk"`
	YearlyReturns YearlyReturns        `json:"yearlyReturns"`
	Diagnostics   []Diagnostic         `json:"diagnostics"`
}
