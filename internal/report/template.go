package report

const markdownTemplate = `# {{ .Title }}

Source: {{ cell .Source }} · valued {{ date .ValuedAt }} · {{ .FilterLabel }}

## Summary

| | |
|:---|---:|
| Total assets | **{{ krw .Summary.TotalAssets }}** |
| Cash | {{ krw .Summary.TotalCash }} ({{ percent .Summary.CashRatio }}) |
| Stocks | {{ krw .Summary.TotalStockValue }} ({{ percent .Summary.StockRatio }}) |
| Invested | {{ krw .Summary.TotalInvestment }} |
| Unrealized gain/loss | {{ signedKRW .Summary.UnrealizedGainLoss }} ({{ signedPercent .Summary.ReturnRate }}) |
| Dividends | {{ krw .Summary.Income.Dividend }} |
| Interest | {{ krw .Summary.Income.Interest }} |
| Realized gain/loss | {{ signedKRW .Summary.Income.SellProfit }} |
| Holdings | {{ .Summary.TotalHoldings }} ({{ .Summary.PricedHoldings }} priced) |

{{- if .Summary.ByOwner }}

## By owner

| Owner | Cash | Stocks | Total | Share |
|:---|---:|---:|---:|---:|
{{- range .Summary.ByOwner }}
| {{ cell .Name }} | {{ krw .Cash }} | {{ krw .StockValue }} | {{ krw .Total }} | {{ percent .Ratio }} |
{{- end }}
{{- end }}

{{- if .Summary.ByAccountType }}

## By account type

| Account type | Cash | Stocks | Total | Share |
|:---|---:|---:|---:|---:|
{{- range .Summary.ByAccountType }}
| {{ cell .Name }} | {{ krw .Cash }} | {{ krw .StockValue }} | {{ krw .Total }} | {{ percent .Ratio }} |
{{- end }}
{{- end }}

{{- if .Performance.TopPerformers }}

## Top performers

| Security | Account | Value | Gain/loss | Return |
|:---|:---|---:|---:|---:|
{{- range .Performance.TopPerformers }}
| {{ cell .Security }} | {{ cell .Account }} | {{ krw .CurrentValue }} | {{ signedKRW .UnrealizedGainLoss }} | {{ signedPercent .ReturnRate }} |
{{- end }}

## Bottom performers

| Security | Account | Value | Gain/loss | Return |
|:---|:---|---:|---:|---:|
{{- range .Performance.BottomPerformers }}
| {{ cell .Security }} | {{ cell .Account }} | {{ krw .CurrentValue }} | {{ signedKRW .UnrealizedGainLoss }} | {{ signedPercent .ReturnRate }} |
{{- end }}
{{- end }}

## Risk

| | |
|:---|---:|
| Win rate | {{ percent .Risk.WinRate }} ({{ .Risk.GainHoldings }} of {{ .Risk.TotalHoldings }}) |
| Total gain | {{ signedKRW .Risk.TotalGain }} |
| Total loss | {{ signedKRW .Risk.TotalLoss }} |
{{- with .Risk.MaxGain }}
| Best | {{ cell .Security }} {{ signedPercent .ReturnRate }} |
{{- end }}
{{- with .Risk.MaxLoss }}
| Worst | {{ cell .Security }} {{ signedPercent .ReturnRate }} |
{{- end }}
| Top 5 concentration | {{ percent .Risk.ConcentrationRatio }} |
| HHI | {{ printf "%.0f" .Risk.HHI }} |

{{- if .Yearly.Years }}

## Yearly returns

| Year | Dividends | Interest | Realized | Total |
|:---|---:|---:|---:|---:|
{{- range .Yearly.Years }}
| {{ .Year }} | {{ krw .Totals.Dividend }} | {{ krw .Totals.Interest }} | {{ signedKRW .Totals.SellProfit }} | {{ signedKRW .Totals.Total }} |
{{- end }}
{{- end }}

{{- if .Diagnostics }}

## Warnings
{{ range .Diagnostics }}
- {{ .Kind }}: {{ .Message }}
{{- end }}
{{- end }}
`
