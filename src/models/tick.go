package models

import "time"

// Tick is one simulated price update for one instrument, published to the
// per-symbol and global feeds each cycle.
type Tick struct {
	Symbol        string    `json:"symbol"`
	Timestamp     time.Time `json:"timestamp"`
	Price         float64   `json:"price"`
	Bid           float64   `json:"bid"`
	Ask           float64   `json:"ask"`
	Volume        float64   `json:"volume"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
}

// QuoteSnapshot is the latest published state for an instrument, one
// current value per symbol, overwritten every tick. The OHLC fields are a
// heuristic around the seed price, not a true session aggregate.
type QuoteSnapshot struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	PreviousClose float64   `json:"previousClose"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Volume        float64   `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}
