package quotestore

import (
	"context"
	"sync"

	"github.com/marketsim/marketsim/src/models"
)

// MemoryQuoteStore is an in-process QuoteStore used by tests and by local
// runs without Redis.
type MemoryQuoteStore struct {
	mutex  sync.RWMutex
	quotes map[string]models.QuoteSnapshot
}

func NewMemoryQuoteStore() *MemoryQuoteStore {
	return &MemoryQuoteStore{
		quotes: make(map[string]models.QuoteSnapshot),
	}
}

func (s *MemoryQuoteStore) SetQuote(ctx context.Context, snapshot *models.QuoteSnapshot) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.quotes[snapshot.Symbol] = *snapshot
	return nil
}

func (s *MemoryQuoteStore) GetQuote(ctx context.Context, symbol string) (*models.QuoteSnapshot, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	snapshot, found := s.quotes[symbol]
	if !found {
		return nil, models.ErrQuoteUnavailable
	}

	return &snapshot, nil
}

// MemoryBroadcaster records published ticks and news for assertions.
type MemoryBroadcaster struct {
	mutex sync.Mutex
	Ticks []models.Tick
	News  []models.NewsEvent
}

func NewMemoryBroadcaster() *MemoryBroadcaster {
	return &MemoryBroadcaster{}
}

func (b *MemoryBroadcaster) PublishTick(tick *models.Tick) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.Ticks = append(b.Ticks, *tick)
	return nil
}

func (b *MemoryBroadcaster) PublishNews(event *models.NewsEvent) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.News = append(b.News, *event)
	return nil
}
