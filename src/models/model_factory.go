package models

import "math/rand"

const (
	ModelKindGBM           = "gbm"
	ModelKindJumpDiffusion = "jump"
	ModelKindGARCH         = "garch"
)

// NewPriceModel constructs the model variant named by the instrument's
// seed entry. Unknown kinds fall back to plain GBM.
func NewPriceModel(instrument Instrument, rng *rand.Rand) PriceModel {
	switch instrument.Model {
	case ModelKindJumpDiffusion:
		return NewJumpDiffusionModel(instrument.BasePrice, instrument.Drift, instrument.Volatility, rng)
	case ModelKindGARCH:
		return NewGARCHModel(instrument.BasePrice, instrument.Drift, instrument.Volatility, rng)
	default:
		return NewGBMModel(instrument.BasePrice, instrument.Drift, instrument.Volatility, rng)
	}
}
