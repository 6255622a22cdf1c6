package models

import "gorm.io/gorm"

// DefaultStartingBalance is the paper-trading balance granted per market
// when an account is created lazily on first order.
const DefaultStartingBalance = 10000.0

// User is a trading account with one cash balance per market.
type User struct {
	gorm.Model
	UserKey       string  `gorm:"column:user_key;type:text;uniqueIndex;not null"`
	Email         *string `gorm:"column:email;type:text"`
	BalanceIndia  float64 `gorm:"column:balance_india;type:numeric;not null"`
	BalanceUSA    float64 `gorm:"column:balance_usa;type:numeric;not null"`
	BalanceUK     float64 `gorm:"column:balance_uk;type:numeric;not null"`
	BalanceCrypto float64 `gorm:"column:balance_crypto;type:numeric;not null"`
}

func NewUser(userKey string, startingBalance float64) *User {
	return &User{
		UserKey:       userKey,
		BalanceIndia:  startingBalance,
		BalanceUSA:    startingBalance,
		BalanceUK:     startingBalance,
		BalanceCrypto: startingBalance,
	}
}

// Balance returns the cash balance for the given market. Unknown markets
// fall back to the domestic balance.
func (u *User) Balance(market Market) float64 {
	switch market {
	case MarketUSA:
		return u.BalanceUSA
	case MarketUK:
		return u.BalanceUK
	case MarketCrypto:
		return u.BalanceCrypto
	default:
		return u.BalanceIndia
	}
}

// SetBalance writes the cash balance for the given market. Unknown markets
// fall back to the domestic balance.
func (u *User) SetBalance(market Market, amount float64) {
	switch market {
	case MarketUSA:
		u.BalanceUSA = amount
	case MarketUK:
		u.BalanceUK = amount
	case MarketCrypto:
		u.BalanceCrypto = amount
	default:
		u.BalanceIndia = amount
	}
}
