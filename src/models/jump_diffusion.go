package models

import (
	"math"
	"math/rand"
)

const (
	defaultJumpIntensity = 2.0
	defaultJumpMean      = 0.0
	defaultJumpStd       = 0.10
)

// JumpDiffusionModel simulates Merton jump-diffusion: a GBM base process
// with a Poisson-distributed number of lognormal jumps per step. The drift
// is convexity-corrected so the expected jump contribution does not bias
// the trend.
type JumpDiffusionModel struct {
	params        ModelParams
	jumpIntensity float64
	jumpMean      float64
	jumpStd       float64
	dt            float64
	rng           *rand.Rand
}

func NewJumpDiffusionModel(initialPrice, drift, volatility float64, rng *rand.Rand) *JumpDiffusionModel {
	return &JumpDiffusionModel{
		params: ModelParams{
			Price:      initialPrice,
			Drift:      drift,
			Volatility: volatility,
		},
		jumpIntensity: defaultJumpIntensity,
		jumpMean:      defaultJumpMean,
		jumpStd:       defaultJumpStd,
		dt:            intradayDt,
		rng:           rng,
	}
}

func (m *JumpDiffusionModel) Advance() float64 {
	p := &m.params

	k := math.Exp(m.jumpMean+0.5*m.jumpStd*m.jumpStd) - 1
	adjustedDrift := p.Drift - m.jumpIntensity*k

	dW := m.rng.NormFloat64() * math.Sqrt(m.dt)
	gbmComponent := p.Price * (adjustedDrift*m.dt + p.Volatility*dW)

	jumpComponent := 0.0
	numJumps := poisson(m.rng, m.jumpIntensity*m.dt)
	for i := 0; i < numJumps; i++ {
		jumpSize := m.jumpMean + m.jumpStd*m.rng.NormFloat64()
		jumpComponent += p.Price * (math.Exp(jumpSize) - 1)
	}

	p.Price = clampPrice(p.Price + gbmComponent + jumpComponent)
	return p.Price
}

func (m *JumpDiffusionModel) Params() *ModelParams {
	return &m.params
}

// poisson draws from Poisson(lambda) via Knuth's inversion. The per-step
// jump rate is tiny, so the loop almost always exits immediately.
func poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}

	threshold := math.Exp(-lambda)
	count := 0
	product := rng.Float64()
	for product > threshold {
		count++
		product *= rng.Float64()
	}

	return count
}
