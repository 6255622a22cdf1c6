package simulation

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketsim/marketsim/src/models"
	"github.com/marketsim/marketsim/src/quotestore"
)

func testInstruments() []models.Instrument {
	return []models.Instrument{
		{Symbol: "AAPL", Name: "Apple", Sector: "technology", Market: models.MarketUSA, BasePrice: 192.50, Drift: 0.08, Volatility: 0.15},
		{Symbol: "MSFT", Name: "Microsoft", Sector: "technology", Market: models.MarketUSA, BasePrice: 390.20, Drift: 0.10, Volatility: 0.14},
		{Symbol: "SHEL", Name: "Shell", Sector: "energy", Market: models.MarketUK, BasePrice: 2500.40, Drift: 0.06, Volatility: 0.14},
	}
}

func newTestEngine(t *testing.T, newsProbability float64) (*Engine, *quotestore.MemoryQuoteStore, *quotestore.MemoryBroadcaster) {
	t.Helper()

	quotes := quotestore.NewMemoryQuoteStore()
	broadcaster := quotestore.NewMemoryBroadcaster()
	rng := rand.New(rand.NewSource(1))
	news := NewNewsEngineWithProbability(newsProbability, rng)

	return NewEngine(testInstruments(), quotes, broadcaster, news, rng), quotes, broadcaster
}

func TestEngineCyclePublishesTicksAndSnapshots(t *testing.T) {
	engine, quotes, broadcaster := newTestEngine(t, 0)

	engine.RunCycle(context.Background())

	require.Len(t, broadcaster.Ticks, 3)

	// deterministic pass order
	assert.Equal(t, "AAPL", broadcaster.Ticks[0].Symbol)
	assert.Equal(t, "MSFT", broadcaster.Ticks[1].Symbol)
	assert.Equal(t, "SHEL", broadcaster.Ticks[2].Symbol)

	for _, tick := range broadcaster.Ticks {
		assert.Greater(t, tick.Price, 0.0)
		assert.InDelta(t, tick.Price*0.9995, tick.Bid, 1e-9)
		assert.InDelta(t, tick.Price*1.0005, tick.Ask, 1e-9)
		assert.GreaterOrEqual(t, tick.Volume, 10.0)
		assert.LessOrEqual(t, tick.Volume, 1000.0)

		snapshot, err := quotes.GetQuote(context.Background(), tick.Symbol)
		require.NoError(t, err)
		assert.Equal(t, tick.Price, snapshot.Price)
		assert.InDelta(t, tick.Price*1.05, snapshot.High, 1e-9)
		assert.InDelta(t, tick.Price*0.95, snapshot.Low, 1e-9)
	}
}

func TestEngineSnapshotOverwrittenEachCycle(t *testing.T) {
	engine, quotes, broadcaster := newTestEngine(t, 0)

	engine.RunCycle(context.Background())
	engine.RunCycle(context.Background())

	require.Len(t, broadcaster.Ticks, 6)

	snapshot, err := quotes.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, broadcaster.Ticks[3].Price, snapshot.Price)
}

func TestEngineGlobalShock(t *testing.T) {
	engine, _, _ := newTestEngine(t, 0)

	driftsBefore := make(map[string]float64)
	volsBefore := make(map[string]float64)
	for symbol, model := range engine.engines {
		driftsBefore[symbol] = model.Params().Drift
		volsBefore[symbol] = model.Params().Volatility
	}

	engine.applyShock(&models.NewsEvent{
		Scope:  models.NewsScopeGlobal,
		Impact: 0.01,
	})

	for symbol, model := range engine.engines {
		assert.InDelta(t, driftsBefore[symbol]+0.001, model.Params().Drift, 1e-12)
		assert.InDelta(t, volsBefore[symbol]*1.5, model.Params().Volatility, 1e-12)
	}
}

func TestEngineSymbolShock(t *testing.T) {
	engine, _, _ := newTestEngine(t, 0)

	aapl := engine.engines["AAPL"].Params()
	msft := engine.engines["MSFT"].Params()
	priceBefore := aapl.Price
	volBefore := aapl.Volatility
	msftPriceBefore := msft.Price

	engine.applyShock(&models.NewsEvent{
		Scope:           models.NewsScopeSymbol,
		Impact:          0.05,
		AffectedSymbols: []string{"AAPL"},
	})

	assert.InDelta(t, priceBefore*1.05, aapl.Price, 1e-9)
	assert.InDelta(t, volBefore*2.0, aapl.Volatility, 1e-12)
	assert.Equal(t, msftPriceBefore, msft.Price)
}

func TestEngineSectorShockResolvesMembers(t *testing.T) {
	engine, _, _ := newTestEngine(t, 0)

	aaplBefore := engine.engines["AAPL"].Params().Price
	msftBefore := engine.engines["MSFT"].Params().Price
	shelBefore := engine.engines["SHEL"].Params().Price

	event := &models.NewsEvent{
		Scope:  models.NewsScopeSector,
		Impact: -0.02,
		Sector: "technology",
	}
	engine.applyShock(event)

	assert.InDelta(t, aaplBefore*0.98, engine.engines["AAPL"].Params().Price, 1e-9)
	assert.InDelta(t, msftBefore*0.98, engine.engines["MSFT"].Params().Price, 1e-9)
	assert.Equal(t, shelBefore, engine.engines["SHEL"].Params().Price)
	assert.ElementsMatch(t, []string{"AAPL", "MSFT"}, event.AffectedSymbols)
}

func TestEngineShockAppliedBeforePriceStep(t *testing.T) {
	quotes := quotestore.NewMemoryQuoteStore()
	broadcaster := quotestore.NewMemoryBroadcaster()
	rng := rand.New(rand.NewSource(1))

	// a certain event every cycle
	news := NewNewsEngineWithProbability(1, rng)
	engine := NewEngine(testInstruments(), quotes, broadcaster, news, rng)

	engine.RunCycle(context.Background())

	require.Len(t, broadcaster.News, 1)
	event := broadcaster.News[0]

	if event.Scope == models.NewsScopeSymbol {
		require.Len(t, broadcaster.Ticks, 3)
		// the published tick already reflects the shocked price
		for _, tick := range broadcaster.Ticks {
			if tick.Symbol != event.AffectedSymbols[0] {
				continue
			}
			base := testInstruments()[0].BasePrice
			if tick.Symbol == "MSFT" {
				base = testInstruments()[1].BasePrice
			} else if tick.Symbol == "SHEL" {
				base = testInstruments()[2].BasePrice
			}
			expected := base * (1 + event.Impact)
			assert.InDelta(t, expected, tick.Price, expected*0.01)
		}
	}
}

func TestEngineVolatilityDecay(t *testing.T) {
	engine, _, _ := newTestEngine(t, 0)

	engine.engines["AAPL"].Params().Volatility = 0.50
	engine.engines["MSFT"].Params().Volatility = 0.20

	engine.RunCycle(context.Background())

	assert.InDelta(t, 0.49, engine.engines["AAPL"].Params().Volatility, 1e-12)
	assert.Equal(t, 0.20, engine.engines["MSFT"].Params().Volatility)
}

func TestEngineRunStopsOnCancel(t *testing.T) {
	engine, _, broadcaster := newTestEngine(t, 0)
	engine.SetPacing(time.Millisecond, 2*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		engine.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("engine did not stop after cancellation")
	}

	assert.NotEmpty(t, broadcaster.Ticks)
}
