package models

import (
	"math"
	"math/rand"
)

const (
	garchOmega = 0.000001
	garchAlpha = 0.1
	garchBeta  = 0.85
)

// GARCHModel is GBM with GARCH(1,1) volatility clustering: each step's
// volatility is the square root of a variance that reacts to the prior
// step's return shock. The realized volatility is written back to the
// parameter block after every step, and an external write to
// Params().Volatility (a news shock or mean-reversion decay) resyncs the
// variance before the next step so shocks compose with the recursion.
type GARCHModel struct {
	params   ModelParams
	omega    float64
	alpha    float64
	beta     float64
	variance float64
	dt       float64
	rng      *rand.Rand
}

func NewGARCHModel(initialPrice, drift, baseVolatility float64, rng *rand.Rand) *GARCHModel {
	return &GARCHModel{
		params: ModelParams{
			Price:      initialPrice,
			Drift:      drift,
			Volatility: baseVolatility,
		},
		omega:    garchOmega,
		alpha:    garchAlpha,
		beta:     garchBeta,
		variance: baseVolatility * baseVolatility,
		dt:       intradayDt,
		rng:      rng,
	}
}

func (m *GARCHModel) Advance() float64 {
	p := &m.params

	// pick up external perturbations of the published volatility
	if vol := math.Sqrt(m.variance); p.Volatility != vol {
		m.variance = p.Volatility * p.Volatility
	}

	volatility := math.Sqrt(m.variance)
	dW := m.rng.NormFloat64() * math.Sqrt(m.dt)
	ret := p.Drift*m.dt + volatility*dW

	p.Price = clampPrice(p.Price * (1 + ret))

	m.variance = m.omega + m.alpha*ret*ret + m.beta*m.variance
	p.Volatility = math.Sqrt(m.variance)

	return p.Price
}

func (m *GARCHModel) Params() *ModelParams {
	return &m.params
}

// Variance exposes the current conditional variance.
func (m *GARCHModel) Variance() float64 {
	return m.variance
}
