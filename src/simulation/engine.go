package simulation

import (
	"context"
	"math/rand"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/marketsim/marketsim/src/models"
)

const (
	// global news shifts the drift baseline by impact/globalDriftDampening
	globalDriftDampening = 10.0

	globalVolatilityMultiplier = 1.5
	symbolVolatilityMultiplier = 2.0
	sectorVolatilityMultiplier = 1.5

	// spiked volatility above the ceiling decays back toward normal
	volatilityCeiling = 0.30
	volatilityDecay   = 0.98

	defaultMinPacing = 500 * time.Millisecond
	defaultMaxPacing = 2 * time.Second
)

// QuoteSink receives the latest snapshot per symbol, overwritten each tick.
type QuoteSink interface {
	SetQuote(ctx context.Context, snapshot *models.QuoteSnapshot) error
}

// Broadcaster fans ticks and news out to downstream consumers. Delivery is
// at-most-once; a failed publish never stops the simulation.
type Broadcaster interface {
	PublishTick(tick *models.Tick) error
	PublishNews(event *models.NewsEvent) error
}

type multiBroadcaster []Broadcaster

func (m multiBroadcaster) PublishTick(tick *models.Tick) error {
	var lastErr error
	for _, b := range m {
		if err := b.PublishTick(tick); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (m multiBroadcaster) PublishNews(event *models.NewsEvent) error {
	var lastErr error
	for _, b := range m {
		if err := b.PublishNews(event); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// NewMultiBroadcaster combines several broadcasters, e.g. the in-process
// bus plus the Redis channels.
func NewMultiBroadcaster(broadcasters ...Broadcaster) Broadcaster {
	return multiBroadcaster(broadcasters)
}

// Engine is the simulation clock: a single sequential process that each
// cycle queries the news engine, applies shocks, advances every price
// model in deterministic order, publishes ticks and snapshots, and decays
// spiked volatility. The per-instrument model state is owned exclusively
// by the engine and never escapes except via published snapshots.
type Engine struct {
	instruments   map[string]models.Instrument
	symbols       []string
	sectors       []string
	sectorMembers map[string][]string
	engines       map[string]models.PriceModel
	quotes        QuoteSink
	broadcaster   Broadcaster
	news          *NewsEngine
	sentiment     *SentimentTracker
	rng           *rand.Rand
	minPacing     time.Duration
	maxPacing     time.Duration
	sleep         func(ctx context.Context, d time.Duration)
}

func NewEngine(instruments []models.Instrument, quotes QuoteSink, broadcaster Broadcaster, newsEngine *NewsEngine, rng *rand.Rand) *Engine {
	e := &Engine{
		instruments:   make(map[string]models.Instrument),
		sectorMembers: make(map[string][]string),
		engines:       make(map[string]models.PriceModel),
		quotes:        quotes,
		broadcaster:   broadcaster,
		news:          newsEngine,
		sentiment:     NewSentimentTracker(),
		rng:           rng,
		minPacing:     defaultMinPacing,
		maxPacing:     defaultMaxPacing,
		sleep:         pause,
	}

	for _, instrument := range instruments {
		e.instruments[instrument.Symbol] = instrument
		e.engines[instrument.Symbol] = models.NewPriceModel(instrument, rng)
		e.symbols = append(e.symbols, instrument.Symbol)
		if instrument.Sector != "" {
			e.sectorMembers[instrument.Sector] = append(e.sectorMembers[instrument.Sector], instrument.Symbol)
		}
	}

	// deterministic pass order
	sort.Strings(e.symbols)

	for sector := range e.sectorMembers {
		e.sectors = append(e.sectors, sector)
	}
	sort.Strings(e.sectors)

	return e
}

// SetPacing overrides the randomized sleep bounds between cycles.
func (e *Engine) SetPacing(min, max time.Duration) {
	e.minPacing = min
	e.maxPacing = max
}

// Sentiment exposes the tracker for collaborators that report market mood.
func (e *Engine) Sentiment() *SentimentTracker {
	return e.sentiment
}

// Run loops until the context is cancelled. The loop has no other
// termination condition; a process restart begins with fresh state.
func (e *Engine) Run(ctx context.Context) {
	log.Infof("simulation engine started with %d instruments", len(e.symbols))

	for {
		select {
		case <-ctx.Done():
			log.Info("simulation engine stopped")
			return
		default:
		}

		e.RunCycle(ctx)

		pacing := e.minPacing + time.Duration(e.rng.Float64()*float64(e.maxPacing-e.minPacing))
		e.sleep(ctx, pacing)
	}
}

// RunCycle executes one full orchestration cycle. Transient sink and
// broadcast failures are logged and the cycle continues: the always-on
// loop values availability over any single cycle's completeness.
func (e *Engine) RunCycle(ctx context.Context) {
	event := e.news.GenerateNewsEvent(e.sentiment.Sentiment(), e.symbols, e.sectors)
	if event != nil {
		// broadcast before applying so consumers see the cause first
		if err := e.broadcaster.PublishNews(event); err != nil {
			log.Errorf("RunCycle: failed to broadcast news event: %v", err)
		}

		e.applyShock(event)

		log.WithFields(log.Fields{
			"category": event.Category,
			"scope":    event.Scope,
			"impact":   event.Impact,
		}).Infof("news event: %s", event.Headline)
	}

	now := time.Now().UTC()

	for _, symbol := range e.symbols {
		model := e.engines[symbol]
		base := e.instruments[symbol]

		price := model.Advance()

		tick := &models.Tick{
			Symbol:        symbol,
			Timestamp:     now,
			Price:         price,
			Bid:           price * 0.9995,
			Ask:           price * 1.0005,
			Volume:        10 + e.rng.Float64()*990,
			Change:        price - base.BasePrice,
			ChangePercent: (price - base.BasePrice) / base.BasePrice * 100,
		}

		if err := e.broadcaster.PublishTick(tick); err != nil {
			log.Errorf("RunCycle: failed to publish tick for %s: %v", symbol, err)
		}

		snapshot := &models.QuoteSnapshot{
			Symbol:        symbol,
			Name:          base.Name,
			Price:         price,
			Open:          base.BasePrice,
			High:          price * 1.05,
			Low:           price * 0.95,
			PreviousClose: base.BasePrice,
			Change:        tick.Change,
			ChangePercent: tick.ChangePercent,
			Volume:        tick.Volume,
			Timestamp:     now,
		}

		if err := e.quotes.SetQuote(ctx, snapshot); err != nil {
			log.Errorf("RunCycle: failed to store snapshot for %s: %v", symbol, err)
		}

		e.sentiment.Observe(tick)
	}

	// mean-reversion of spiked volatility, independent of event duration
	for _, symbol := range e.symbols {
		params := e.engines[symbol].Params()
		if params.Volatility > volatilityCeiling {
			params.Volatility *= volatilityDecay
		}
	}
}

func (e *Engine) applyShock(event *models.NewsEvent) {
	switch event.Scope {
	case models.NewsScopeGlobal:
		for _, symbol := range e.symbols {
			params := e.engines[symbol].Params()
			params.Drift += event.Impact / globalDriftDampening
			params.Volatility *= globalVolatilityMultiplier
		}
	case models.NewsScopeSymbol:
		for _, symbol := range event.AffectedSymbols {
			model, found := e.engines[symbol]
			if !found {
				continue
			}
			params := model.Params()
			params.Price = clampShockedPrice(params.Price * (1 + event.Impact))
			params.Volatility *= symbolVolatilityMultiplier
		}
	case models.NewsScopeSector:
		members := e.sectorMembers[event.Sector]
		for _, symbol := range members {
			params := e.engines[symbol].Params()
			params.Price = clampShockedPrice(params.Price * (1 + event.Impact))
			params.Volatility *= sectorVolatilityMultiplier
		}
		event.AffectedSymbols = append([]string(nil), members...)
	}
}

func clampShockedPrice(price float64) float64 {
	if price < 0.01 {
		return 0.01
	}
	return price
}

func pause(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
