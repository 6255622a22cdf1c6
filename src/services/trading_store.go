package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/marketsim/marketsim/src/models"
)

// TradingStore is the durable store for users, positions, orders and
// trades. Transaction runs the callback against a store view whose
// mutations commit as one atomic unit or not at all.
type TradingStore interface {
	GetUser(userKey string) (*models.User, error)
	GetOrCreateUser(userKey string, startingBalance float64) (*models.User, error)
	SaveUser(user *models.User) error

	GetOrCreatePosition(userKey, symbol string) (*models.Position, error)
	GetPositions(userKey string) ([]*models.Position, error)
	SavePosition(position *models.Position) error
	DeletePosition(position *models.Position) error

	CreateOrder(order *models.OrderRecord) error
	CreateTrade(trade *models.TradeRecord) error
	GetOrders(userKey string) ([]*models.OrderRecord, error)
	GetTrades(userKey string) ([]*models.TradeRecord, error)

	Transaction(fn func(tx TradingStore) error) error
}

// GormTradingStore implements TradingStore on a Postgres-backed gorm DB.
type GormTradingStore struct {
	db *gorm.DB
}

func NewGormTradingStore(db *gorm.DB) *GormTradingStore {
	return &GormTradingStore{
		db: db,
	}
}

func (s *GormTradingStore) GetUser(userKey string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("user_key = ?", userKey).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("GetUser: %w", err)
	}

	return &user, nil
}

func (s *GormTradingStore) GetOrCreateUser(userKey string, startingBalance float64) (*models.User, error) {
	user, err := s.GetUser(userKey)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return nil, err
	}

	user = models.NewUser(userKey, startingBalance)
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("GetOrCreateUser: failed to create user: %w", err)
	}

	return user, nil
}

func (s *GormTradingStore) SaveUser(user *models.User) error {
	if err := s.db.Save(user).Error; err != nil {
		return fmt.Errorf("SaveUser: %w", err)
	}

	return nil
}

func (s *GormTradingStore) GetOrCreatePosition(userKey, symbol string) (*models.Position, error) {
	var position models.Position
	err := s.db.Where("user_key = ? AND symbol = ?", userKey, symbol).First(&position).Error
	if err == nil {
		return &position, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("GetOrCreatePosition: %w", err)
	}

	position = models.Position{
		UserKey:     userKey,
		Symbol:      symbol,
		Quantity:    0,
		AverageCost: 0,
	}
	if err := s.db.Create(&position).Error; err != nil {
		return nil, fmt.Errorf("GetOrCreatePosition: failed to create position: %w", err)
	}

	return &position, nil
}

func (s *GormTradingStore) GetPositions(userKey string) ([]*models.Position, error) {
	var positions []*models.Position
	if err := s.db.Where("user_key = ?", userKey).Order("symbol").Find(&positions).Error; err != nil {
		return nil, fmt.Errorf("GetPositions: %w", err)
	}

	return positions, nil
}

func (s *GormTradingStore) SavePosition(position *models.Position) error {
	if err := s.db.Save(position).Error; err != nil {
		return fmt.Errorf("SavePosition: %w", err)
	}

	return nil
}

func (s *GormTradingStore) DeletePosition(position *models.Position) error {
	if err := s.db.Unscoped().Delete(position).Error; err != nil {
		return fmt.Errorf("DeletePosition: %w", err)
	}

	return nil
}

func (s *GormTradingStore) CreateOrder(order *models.OrderRecord) error {
	if err := s.db.Create(order).Error; err != nil {
		return fmt.Errorf("CreateOrder: %w", err)
	}

	return nil
}

func (s *GormTradingStore) CreateTrade(trade *models.TradeRecord) error {
	if err := s.db.Create(trade).Error; err != nil {
		return fmt.Errorf("CreateTrade: %w", err)
	}

	return nil
}

func (s *GormTradingStore) GetOrders(userKey string) ([]*models.OrderRecord, error) {
	var orders []*models.OrderRecord
	if err := s.db.Where("user_key = ?", userKey).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("GetOrders: %w", err)
	}

	return orders, nil
}

func (s *GormTradingStore) GetTrades(userKey string) ([]*models.TradeRecord, error) {
	var trades []*models.TradeRecord
	if err := s.db.Where("user_key = ?", userKey).Order("timestamp DESC").Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("GetTrades: %w", err)
	}

	return trades, nil
}

func (s *GormTradingStore) Transaction(fn func(tx TradingStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormTradingStore{db: tx})
	})
}
