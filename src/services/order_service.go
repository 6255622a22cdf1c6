package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/marketsim/marketsim/src/models"
)

// QuoteStore is the read side of the quote snapshot store: the latest
// published price per symbol, written by the simulation clock.
type QuoteStore interface {
	GetQuote(ctx context.Context, symbol string) (*models.QuoteSnapshot, error)
}

type PlaceOrderRequest struct {
	UserKey   string
	Symbol    string
	Side      string
	Quantity  int64
	Market    models.Market
	OrderType string
}

type PlaceOrderResult struct {
	FillPrice  float64
	TotalValue float64
	NewBalance float64
	Order      *models.OrderRecord
	Trade      *models.TradeRecord
}

// Portfolio is a user's balances plus open positions.
type Portfolio struct {
	User      *models.User
	Positions []*models.Position
}

// OrderService executes market orders against the latest quote snapshot
// and keeps balances, positions and the order/trade audit trail
// consistent. Each user's read-modify-write window is serialized by a
// per-user mutex; requests for different users proceed independently.
type OrderService struct {
	store           TradingStore
	quotes          QuoteStore
	startingBalance float64

	locksMutex sync.Mutex
	userLocks  map[string]*sync.Mutex
}

func NewOrderService(store TradingStore, quotes QuoteStore, startingBalance float64) *OrderService {
	if startingBalance <= 0 {
		startingBalance = models.DefaultStartingBalance
	}

	return &OrderService{
		store:           store,
		quotes:          quotes,
		startingBalance: startingBalance,
		userLocks:       make(map[string]*sync.Mutex),
	}
}

func (s *OrderService) lockForUser(userKey string) *sync.Mutex {
	s.locksMutex.Lock()
	defer s.locksMutex.Unlock()

	lock, found := s.userLocks[userKey]
	if !found {
		lock = &sync.Mutex{}
		s.userLocks[userKey] = lock
	}

	return lock
}

// PlaceOrder fills a market order at the latest snapshot price and
// atomically updates the user's market balance, the position's weighted
// average cost, and the order/trade records. Validation and business-rule
// failures leave no state behind and are safe to retry.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if req.Quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}

	side := models.OrderSide(strings.ToLower(req.Side))
	if side != models.OrderSideBuy && side != models.OrderSideSell {
		return nil, models.ErrInvalidSide
	}

	market := req.Market
	if !market.IsValid() {
		market = models.MarketIndia
	}

	orderType := req.OrderType
	if orderType == "" {
		orderType = models.OrderTypeMarket
	}

	quote, err := s.quotes.GetQuote(ctx, req.Symbol)
	if err != nil {
		return nil, fmt.Errorf("PlaceOrder %s: %w", req.Symbol, err)
	}

	fillPrice := quote.Price
	totalValue := fillPrice * float64(req.Quantity)

	lock := s.lockForUser(req.UserKey)
	lock.Lock()
	defer lock.Unlock()

	var result *PlaceOrderResult

	err = s.store.Transaction(func(tx TradingStore) error {
		user, err := tx.GetOrCreateUser(req.UserKey, s.startingBalance)
		if err != nil {
			return err
		}

		position, err := tx.GetOrCreatePosition(req.UserKey, req.Symbol)
		if err != nil {
			return err
		}

		balance := user.Balance(market)

		switch side {
		case models.OrderSideBuy:
			if balance < totalValue {
				return fmt.Errorf("balance %.2f, cost %.2f: %w", balance, totalValue, models.ErrInsufficientFunds)
			}
			position.ApplyBuy(req.Quantity, totalValue)
			user.SetBalance(market, balance-totalValue)

		case models.OrderSideSell:
			if position.Quantity < req.Quantity {
				return fmt.Errorf("held %d, requested %d: %w", position.Quantity, req.Quantity, models.ErrInsufficientShares)
			}
			position.ApplySell(req.Quantity)
			user.SetBalance(market, balance+totalValue)
		}

		if err := tx.SaveUser(user); err != nil {
			return err
		}

		if position.Quantity == 0 {
			if err := tx.DeletePosition(position); err != nil {
				return err
			}
		} else {
			if err := tx.SavePosition(position); err != nil {
				return err
			}
		}

		now := time.Now().UTC()

		order := models.NewOrderRecord(req.UserKey, req.Symbol, side, orderType, req.Quantity, market, now)
		if err := tx.CreateOrder(order); err != nil {
			return err
		}

		trade := models.NewTradeRecord(order.ID, req.UserKey, req.Symbol, side, req.Quantity, fillPrice, now)
		if err := tx.CreateTrade(trade); err != nil {
			return err
		}

		result = &PlaceOrderResult{
			FillPrice:  fillPrice,
			TotalValue: totalValue,
			NewBalance: user.Balance(market),
			Order:      order,
			Trade:      trade,
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user":   req.UserKey,
		"symbol": req.Symbol,
		"side":   side,
		"qty":    req.Quantity,
		"price":  fillPrice,
	}).Info("order filled")

	return result, nil
}

// GetQuote reads the latest snapshot for a symbol.
func (s *OrderService) GetQuote(ctx context.Context, symbol string) (*models.QuoteSnapshot, error) {
	return s.quotes.GetQuote(ctx, symbol)
}

// GetPortfolio returns the user's balances and open positions, creating
// the account with default balances if it does not exist yet.
func (s *OrderService) GetPortfolio(ctx context.Context, userKey string) (*Portfolio, error) {
	user, err := s.store.GetOrCreateUser(userKey, s.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("GetPortfolio: %w", err)
	}

	positions, err := s.store.GetPositions(userKey)
	if err != nil {
		return nil, fmt.Errorf("GetPortfolio: %w", err)
	}

	return &Portfolio{
		User:      user,
		Positions: positions,
	}, nil
}

// GetOrders returns the user's order history, newest first.
func (s *OrderService) GetOrders(ctx context.Context, userKey string) ([]*models.OrderRecord, error) {
	return s.store.GetOrders(userKey)
}

// GetTrades returns the user's fill history, newest first.
func (s *OrderService) GetTrades(ctx context.Context, userKey string) ([]*models.TradeRecord, error) {
	return s.store.GetTrades(userKey)
}
