package models

import (
	"math"
	"math/rand"
)

// priceFloor is the smallest price any model will emit. Simulated prices
// never touch zero, which keeps change-percent math and fill values sane.
const priceFloor = 0.01

// gbmDt is tuned for visible but stable cent-level ticks.
const gbmDt = 1.0 / (252.0 * 10000.0)

// intradayDt models a 15-second slice of a 390-minute trading day.
const intradayDt = 15.0 / (252.0 * 390.0 * 60.0)

// ModelParams is the mutable parameter block of a price model. The
// simulation clock owns it for the process lifetime; news shocks write
// drift, volatility and price through it between steps.
type ModelParams struct {
	Price      float64
	Drift      float64
	Volatility float64
}

// PriceModel advances one simulated price at a time. Implementations keep
// no hidden history beyond the parameter block (and variance for GARCH),
// and only ever produce strictly positive prices.
type PriceModel interface {
	// Advance generates the next price and returns it. The new price is
	// also written back to Params().Price.
	Advance() float64

	// Params exposes the mutable drift/volatility/price so shocks can
	// perturb the model between steps.
	Params() *ModelParams
}

// GBMModel simulates Geometric Brownian Motion.
type GBMModel struct {
	params ModelParams
	dt     float64
	rng    *rand.Rand
}

func NewGBMModel(initialPrice, drift, volatility float64, rng *rand.Rand) *GBMModel {
	return &GBMModel{
		params: ModelParams{
			Price:      initialPrice,
			Drift:      drift,
			Volatility: volatility,
		},
		dt:  gbmDt,
		rng: rng,
	}
}

func (m *GBMModel) Advance() float64 {
	p := &m.params

	dW := m.rng.NormFloat64() * math.Sqrt(m.dt)
	dS := p.Price * (p.Drift*m.dt + p.Volatility*dW)

	p.Price = clampPrice(p.Price + dS)
	return p.Price
}

func (m *GBMModel) Params() *ModelParams {
	return &m.params
}

func clampPrice(price float64) float64 {
	if price < priceFloor {
		return priceFloor
	}

	return price
}
