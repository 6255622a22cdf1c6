package models

import (
	"time"

	"gorm.io/gorm"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

const (
	OrderTypeMarket = "market"

	OrderStatusFilled = "filled"
)

// OrderRecord is the immutable record of a trade intent. All orders fill
// immediately at the latest snapshot price, so the status is always
// "filled" with the fill timestamp set at creation.
type OrderRecord struct {
	gorm.Model
	UserKey   string    `gorm:"column:user_key;type:text;not null;index:idx_user_orders"`
	Symbol    string    `gorm:"column:symbol;type:text;not null"`
	Side      OrderSide `gorm:"column:side;type:text;not null"`
	OrderType string    `gorm:"column:order_type;type:text;not null"`
	Quantity  int64     `gorm:"column:quantity;not null"`
	Market    Market    `gorm:"column:market;type:text;not null"`
	Status    string    `gorm:"column:status;type:text;not null"`
	FilledAt  time.Time `gorm:"column:filled_at;type:timestamp;not null"`
}

func NewOrderRecord(userKey, symbol string, side OrderSide, orderType string, quantity int64, market Market, filledAt time.Time) *OrderRecord {
	return &OrderRecord{
		UserKey:   userKey,
		Symbol:    symbol,
		Side:      side,
		OrderType: orderType,
		Quantity:  quantity,
		Market:    market,
		Status:    OrderStatusFilled,
		FilledAt:  filledAt,
	}
}
