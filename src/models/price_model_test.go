package models

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceModelsStayPositive(t *testing.T) {
	seeds := []int64{1, 7, 42, 1337}

	params := []struct {
		drift      float64
		volatility float64
	}{
		{0.08, 0.15},
		{0.0, 0.01},
		{-0.5, 0.80},
		{0.25, 0.70},
	}

	build := map[string]func(drift, volatility float64, rng *rand.Rand) PriceModel{
		"gbm": func(drift, volatility float64, rng *rand.Rand) PriceModel {
			return NewGBMModel(100.0, drift, volatility, rng)
		},
		"jump": func(drift, volatility float64, rng *rand.Rand) PriceModel {
			return NewJumpDiffusionModel(100.0, drift, volatility, rng)
		},
		"garch": func(drift, volatility float64, rng *rand.Rand) PriceModel {
			return NewGARCHModel(100.0, drift, volatility, rng)
		},
	}

	for name, newModel := range build {
		t.Run(name, func(t *testing.T) {
			for _, seed := range seeds {
				for _, p := range params {
					model := newModel(p.drift, p.volatility, rand.New(rand.NewSource(seed)))
					for i := 0; i < 10000; i++ {
						price := model.Advance()
						require.Greater(t, price, 0.0)
						require.False(t, math.IsNaN(price))
					}
				}
			}
		})
	}
}

func TestPriceModelWritesBackToParams(t *testing.T) {
	model := NewGBMModel(100.0, 0.08, 0.15, rand.New(rand.NewSource(1)))

	price := model.Advance()
	assert.Equal(t, price, model.Params().Price)
}

func TestGBMRespectsExternalParameterShock(t *testing.T) {
	model := NewGBMModel(100.0, 0.0, 0.0, rand.New(rand.NewSource(1)))

	// zero drift and volatility freezes the process
	assert.Equal(t, 100.0, model.Advance())

	// a pure price shock moves the next step's base
	model.Params().Price *= 1.05
	assert.InDelta(t, 105.0, model.Advance(), 1e-9)
}

func TestGARCHVarianceStaysFinite(t *testing.T) {
	model := NewGARCHModel(100.0, 0.08, 0.20, rand.New(rand.NewSource(99)))

	for i := 0; i < 100000; i++ {
		model.Advance()
		variance := model.Variance()
		require.GreaterOrEqual(t, variance, 0.0)
		require.False(t, math.IsNaN(variance))
		require.False(t, math.IsInf(variance, 0))
	}
}

func TestGARCHResyncsVarianceAfterVolatilityShock(t *testing.T) {
	model := NewGARCHModel(100.0, 0.08, 0.20, rand.New(rand.NewSource(5)))
	model.Advance()

	model.Params().Volatility *= 1.5
	shocked := model.Params().Volatility

	model.Advance()

	// the recursion started from the shocked variance, not the stale one
	assert.InDelta(t, garchOmega+garchBeta*shocked*shocked, model.Variance(), shocked*shocked*garchAlpha)
}

func TestJumpDiffusionPoissonDraw(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	t.Run("zero rate yields zero jumps", func(t *testing.T) {
		assert.Equal(t, 0, poisson(rng, 0))
	})

	t.Run("mean tracks lambda", func(t *testing.T) {
		lambda := 2.0
		total := 0
		n := 20000
		for i := 0; i < n; i++ {
			total += poisson(rng, lambda)
		}
		assert.InDelta(t, lambda, float64(total)/float64(n), 0.1)
	})
}
