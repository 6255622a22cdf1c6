package models

import "gorm.io/gorm"

// Position is a user's holding in one symbol with its quantity-weighted
// average cost. The row is deleted when the quantity returns to zero.
type Position struct {
	gorm.Model
	UserKey     string  `gorm:"column:user_key;type:text;not null;uniqueIndex:idx_user_symbol"`
	Symbol      string  `gorm:"column:symbol;type:text;not null;uniqueIndex:idx_user_symbol"`
	Quantity    int64   `gorm:"column:quantity;not null"`
	AverageCost float64 `gorm:"column:average_cost;type:numeric;not null"`
}

// ApplyBuy debits nothing itself; it folds a fill into the weighted
// average cost and increments the quantity.
func (p *Position) ApplyBuy(quantity int64, totalValue float64) {
	newTotalCost := float64(p.Quantity)*p.AverageCost + totalValue
	p.Quantity += quantity
	p.AverageCost = newTotalCost / float64(p.Quantity)
}

// ApplySell decrements the quantity. The average cost is left untouched on
// partial sells and reset only at full liquidation.
func (p *Position) ApplySell(quantity int64) {
	p.Quantity -= quantity
	if p.Quantity == 0 {
		p.AverageCost = 0
	}
}
