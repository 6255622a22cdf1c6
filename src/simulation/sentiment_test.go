package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marketsim/marketsim/src/models"
)

func tickWithChange(symbol string, changePercent float64) *models.Tick {
	return &models.Tick{
		Symbol:        symbol,
		ChangePercent: changePercent,
	}
}

func TestSentimentTracker(t *testing.T) {
	t.Run("empty window is neutral", func(t *testing.T) {
		tracker := NewSentimentTracker()
		assert.Equal(t, models.SentimentNeutral, tracker.Sentiment())
	})

	t.Run("positive drift turns bullish", func(t *testing.T) {
		tracker := NewSentimentTracker()
		for i := 0; i < 50; i++ {
			tracker.Observe(tickWithChange("AAPL", 0.8))
		}
		assert.Equal(t, models.SentimentBullish, tracker.Sentiment())
	})

	t.Run("negative drift turns bearish", func(t *testing.T) {
		tracker := NewSentimentTracker()
		for i := 0; i < 50; i++ {
			tracker.Observe(tickWithChange("AAPL", -0.8))
		}
		assert.Equal(t, models.SentimentBearish, tracker.Sentiment())
	})

	t.Run("small moves stay neutral", func(t *testing.T) {
		tracker := NewSentimentTracker()
		for i := 0; i < 50; i++ {
			tracker.Observe(tickWithChange("AAPL", 0.01))
			tracker.Observe(tickWithChange("MSFT", -0.01))
		}
		assert.Equal(t, models.SentimentNeutral, tracker.Sentiment())
	})
}

func TestSentimentTrackerLeadersAndLaggards(t *testing.T) {
	tracker := NewSentimentTracker()
	tracker.Observe(tickWithChange("AAPL", 2.0))
	tracker.Observe(tickWithChange("MSFT", -1.0))
	tracker.Observe(tickWithChange("TCS", 0.5))

	assert.Equal(t, []string{"AAPL", "TCS"}, tracker.Leaders(2))
	assert.Equal(t, []string{"MSFT", "TCS"}, tracker.Laggards(2))
	assert.Len(t, tracker.Leaders(10), 3)
}
