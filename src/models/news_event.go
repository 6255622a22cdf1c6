package models

import (
	"time"

	"github.com/google/uuid"
)

// NewsScope is the breadth of instruments a news event affects.
type NewsScope string

const (
	NewsScopeSymbol NewsScope = "symbol"
	NewsScopeSector NewsScope = "sector"
	NewsScopeGlobal NewsScope = "global"
)

// MarketSentiment is the prevailing mood fed into the news engine; an
// event whose impact agrees with it gets amplified.
type MarketSentiment string

const (
	SentimentBullish MarketSentiment = "bullish"
	SentimentBearish MarketSentiment = "bearish"
	SentimentNeutral MarketSentiment = "neutral"
)

// NewsEvent is a generated market event. It is applied once to the price
// model parameters and afterwards retained only as a broadcast/audit
// record; DurationMinutes is audit-only and never scheduled against.
type NewsEvent struct {
	ID              uuid.UUID `json:"id"`
	Headline        string    `json:"headline"`
	Category        string    `json:"category"`
	Subcategory     string    `json:"subcategory"`
	Timestamp       time.Time `json:"timestamp"`
	Impact          float64   `json:"impact"`
	DurationMinutes int       `json:"duration_minutes"`
	Scope           NewsScope `json:"affected_scope"`
	Sector          string    `json:"sector,omitempty"`
	AffectedSymbols []string  `json:"affected_symbols"`
}
