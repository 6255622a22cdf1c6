package services

import (
	"sync"
	"time"

	"github.com/marketsim/marketsim/src/models"
)

// MemoryTradingStore is an in-process TradingStore used by tests. Its
// Transaction snapshots all tables and restores them when the callback
// fails, matching the all-or-nothing contract of the gorm store.
type MemoryTradingStore struct {
	mutex     sync.Mutex
	users     map[string]*models.User
	positions map[string]map[string]*models.Position
	orders    []*models.OrderRecord
	trades    []*models.TradeRecord
	nextID    uint
}

func NewMemoryTradingStore() *MemoryTradingStore {
	return &MemoryTradingStore{
		users:     make(map[string]*models.User),
		positions: make(map[string]map[string]*models.Position),
		nextID:    1,
	}
}

func (s *MemoryTradingStore) GetUser(userKey string) (*models.User, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	user, found := s.users[userKey]
	if !found {
		return nil, models.ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}

func (s *MemoryTradingStore) GetOrCreateUser(userKey string, startingBalance float64) (*models.User, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	user, found := s.users[userKey]
	if !found {
		user = models.NewUser(userKey, startingBalance)
		user.ID = s.allocateID()
		s.users[userKey] = user
	}

	copied := *user
	return &copied, nil
}

func (s *MemoryTradingStore) SaveUser(user *models.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	copied := *user
	s.users[user.UserKey] = &copied
	return nil
}

func (s *MemoryTradingStore) GetOrCreatePosition(userKey, symbol string) (*models.Position, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	userPositions, found := s.positions[userKey]
	if !found {
		userPositions = make(map[string]*models.Position)
		s.positions[userKey] = userPositions
	}

	position, found := userPositions[symbol]
	if !found {
		position = &models.Position{
			UserKey: userKey,
			Symbol:  symbol,
		}
		position.ID = s.allocateID()
		userPositions[symbol] = position
	}

	copied := *position
	return &copied, nil
}

func (s *MemoryTradingStore) GetPositions(userKey string) ([]*models.Position, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var positions []*models.Position
	for _, position := range s.positions[userKey] {
		copied := *position
		positions = append(positions, &copied)
	}

	return positions, nil
}

func (s *MemoryTradingStore) SavePosition(position *models.Position) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	userPositions, found := s.positions[position.UserKey]
	if !found {
		userPositions = make(map[string]*models.Position)
		s.positions[position.UserKey] = userPositions
	}

	copied := *position
	userPositions[position.Symbol] = &copied
	return nil
}

func (s *MemoryTradingStore) DeletePosition(position *models.Position) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.positions[position.UserKey], position.Symbol)
	return nil
}

func (s *MemoryTradingStore) CreateOrder(order *models.OrderRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	order.ID = s.allocateID()
	order.CreatedAt = time.Now().UTC()
	copied := *order
	s.orders = append(s.orders, &copied)
	return nil
}

func (s *MemoryTradingStore) CreateTrade(trade *models.TradeRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	trade.ID = s.allocateID()
	trade.CreatedAt = time.Now().UTC()
	copied := *trade
	s.trades = append(s.trades, &copied)
	return nil
}

func (s *MemoryTradingStore) GetOrders(userKey string) ([]*models.OrderRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var orders []*models.OrderRecord
	for _, order := range s.orders {
		if order.UserKey == userKey {
			copied := *order
			orders = append(orders, &copied)
		}
	}

	return orders, nil
}

func (s *MemoryTradingStore) GetTrades(userKey string) ([]*models.TradeRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var trades []*models.TradeRecord
	for _, trade := range s.trades {
		if trade.UserKey == userKey {
			copied := *trade
			trades = append(trades, &copied)
		}
	}

	return trades, nil
}

func (s *MemoryTradingStore) Transaction(fn func(tx TradingStore) error) error {
	s.mutex.Lock()
	snapshot := s.snapshotLocked()
	s.mutex.Unlock()

	if err := fn(s); err != nil {
		s.mutex.Lock()
		s.restoreLocked(snapshot)
		s.mutex.Unlock()
		return err
	}

	return nil
}

type memorySnapshot struct {
	users     map[string]*models.User
	positions map[string]map[string]*models.Position
	orders    []*models.OrderRecord
	trades    []*models.TradeRecord
	nextID    uint
}

func (s *MemoryTradingStore) snapshotLocked() memorySnapshot {
	snapshot := memorySnapshot{
		users:     make(map[string]*models.User, len(s.users)),
		positions: make(map[string]map[string]*models.Position, len(s.positions)),
		orders:    append([]*models.OrderRecord(nil), s.orders...),
		trades:    append([]*models.TradeRecord(nil), s.trades...),
		nextID:    s.nextID,
	}

	for key, user := range s.users {
		copied := *user
		snapshot.users[key] = &copied
	}
	for key, userPositions := range s.positions {
		copiedPositions := make(map[string]*models.Position, len(userPositions))
		for symbol, position := range userPositions {
			copied := *position
			copiedPositions[symbol] = &copied
		}
		snapshot.positions[key] = copiedPositions
	}

	return snapshot
}

func (s *MemoryTradingStore) restoreLocked(snapshot memorySnapshot) {
	s.users = snapshot.users
	s.positions = snapshot.positions
	s.orders = snapshot.orders
	s.trades = snapshot.trades
	s.nextID = snapshot.nextID
}

func (s *MemoryTradingStore) allocateID() uint {
	id := s.nextID
	s.nextID++
	return id
}
