package models

import (
	"time"

	"gorm.io/gorm"
)

// TradeRecord is the immutable fill linked to an OrderRecord, forming the
// execution audit trail.
type TradeRecord struct {
	gorm.Model
	OrderID   uint        `gorm:"column:order_id;not null;index:idx_order_id"`
	Order     OrderRecord `gorm:"foreignKey:OrderID"`
	UserKey   string      `gorm:"column:user_key;type:text;not null;index:idx_user_trades"`
	Symbol    string      `gorm:"column:symbol;type:text;not null"`
	Side      OrderSide   `gorm:"column:side;type:text;not null"`
	Quantity  int64       `gorm:"column:quantity;not null"`
	Price     float64     `gorm:"column:price;type:numeric;not null"`
	Timestamp time.Time   `gorm:"column:timestamp;type:timestamp;not null"`
}

func NewTradeRecord(orderID uint, userKey, symbol string, side OrderSide, quantity int64, price float64, timestamp time.Time) *TradeRecord {
	return &TradeRecord{
		OrderID:   orderID,
		UserKey:   userKey,
		Symbol:    symbol,
		Side:      side,
		Quantity:  quantity,
		Price:     price,
		Timestamp: timestamp,
	}
}
