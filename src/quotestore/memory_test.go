package quotestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketsim/marketsim/src/models"
)

func TestMemoryQuoteStore(t *testing.T) {
	store := NewMemoryQuoteStore()
	ctx := context.Background()

	t.Run("missing symbol is quote unavailable", func(t *testing.T) {
		_, err := store.GetQuote(ctx, "AAPL")
		assert.ErrorIs(t, err, models.ErrQuoteUnavailable)
	})

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, store.SetQuote(ctx, &models.QuoteSnapshot{Symbol: "AAPL", Price: 100}))
		require.NoError(t, store.SetQuote(ctx, &models.QuoteSnapshot{Symbol: "AAPL", Price: 101}))

		snapshot, err := store.GetQuote(ctx, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, 101.0, snapshot.Price)
	})

	t.Run("returned snapshot is a copy", func(t *testing.T) {
		snapshot, err := store.GetQuote(ctx, "AAPL")
		require.NoError(t, err)

		snapshot.Price = 0

		again, err := store.GetQuote(ctx, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, 101.0, again.Price)
	})
}
