package simulation

import (
	"sort"
	"sync"

	"github.com/montanaflynn/stats"

	"github.com/marketsim/marketsim/src/models"
)

const (
	sentimentWindowSize = 256
	bullishThreshold    = 0.05
	bearishThreshold    = -0.05
)

// SentimentTracker derives the prevailing market mood from recent tick
// change-percents. It feeds the news engine, which amplifies events that
// agree with the mood.
type SentimentTracker struct {
	mutex    sync.Mutex
	window   []float64
	next     int
	full     bool
	byLatest map[string]float64
}

func NewSentimentTracker() *SentimentTracker {
	return &SentimentTracker{
		window:   make([]float64, sentimentWindowSize),
		byLatest: make(map[string]float64),
	}
}

// Observe records one tick's change-percent.
func (t *SentimentTracker) Observe(tick *models.Tick) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.window[t.next] = tick.ChangePercent
	t.next = (t.next + 1) % len(t.window)
	if t.next == 0 {
		t.full = true
	}

	t.byLatest[tick.Symbol] = tick.ChangePercent
}

// Sentiment classifies the mean change-percent over the window.
func (t *SentimentTracker) Sentiment() models.MarketSentiment {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	size := t.next
	if t.full {
		size = len(t.window)
	}
	if size == 0 {
		return models.SentimentNeutral
	}

	mean, err := stats.Mean(t.window[:size])
	if err != nil {
		return models.SentimentNeutral
	}

	switch {
	case mean > bullishThreshold:
		return models.SentimentBullish
	case mean < bearishThreshold:
		return models.SentimentBearish
	default:
		return models.SentimentNeutral
	}
}

// Leaders returns the n symbols with the highest latest change-percent.
func (t *SentimentTracker) Leaders(n int) []string {
	return t.rank(n, func(a, b float64) bool { return a > b })
}

// Laggards returns the n symbols with the lowest latest change-percent.
func (t *SentimentTracker) Laggards(n int) []string {
	return t.rank(n, func(a, b float64) bool { return a < b })
}

func (t *SentimentTracker) rank(n int, better func(a, b float64) bool) []string {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	symbols := make([]string, 0, len(t.byLatest))
	for symbol := range t.byLatest {
		symbols = append(symbols, symbol)
	}

	sort.Slice(symbols, func(i, j int) bool {
		a, b := t.byLatest[symbols[i]], t.byLatest[symbols[j]]
		if a == b {
			return symbols[i] < symbols[j]
		}
		return better(a, b)
	})

	if n > len(symbols) {
		n = len(symbols)
	}

	return symbols[:n]
}
