package model

import "github.com/shopspring/decimal"

// Price is the singleton reference price record (USD per ETH and per CRO).
type Price struct {
	ID  string          `json:"id"`
	ETH decimal.Decimal `json:"eth"`
	CRO decimal.Decimal `json:"cro"`
}

// HourlyPriceHistory is an immutable hourly price snapshot keyed by the
// next hour boundary.
type HourlyPriceHistory struct {
	ID        string          `json:"id"`
	Timestamp uint64          `json:"timestamp"`
	ETH       decimal.Decimal `json:"eth"`
	CRO       decimal.Decimal `json:"cro"`
}
