package simulation

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marketsim/marketsim/src/models"
)

// defaultNewsProbability keeps headlines rare enough that the market is
// not in constant chaos: roughly one event per hundred cycles.
const defaultNewsProbability = 0.01

// impactDampening divides the raw theoretical impact so shocks land as
// realistic sub-1% moves at tick cadence.
const impactDampening = 10.0

// sentimentAmplifier scales an impact whose sign agrees with the
// prevailing market sentiment.
const sentimentAmplifier = 1.2

type newsSubcategory struct {
	name            string
	templates       []string
	impactMin       float64
	impactMax       float64
	durationMinutes int
	scope           models.NewsScope
}

type newsCategory struct {
	name          string
	subcategories []newsSubcategory
}

// newsTaxonomy is the static event table. Slices, not maps, so that a
// seeded RNG walks it deterministically.
var newsTaxonomy = []newsCategory{
	{
		name: "company_specific",
		subcategories: []newsSubcategory{
			{
				name: "earnings",
				templates: []string{
					"{company} Reports Q{quarter} EPS of ${eps}, {beat_or_miss} by ${difference}",
					"{company} {beats_or_misses} Revenue Estimates with ${revenue}B",
					"{company} Raises Full Year Guidance",
					"{company} Lowers Full Year Guidance on Supply Chain Issues",
				},
				impactMin:       -0.08,
				impactMax:       0.08,
				durationMinutes: 60,
				scope:           models.NewsScopeSymbol,
			},
			{
				name: "management",
				templates: []string{
					"{company} CEO Announces Unexpected Retirement",
					"{company} Names New Chief Financial Officer",
					"{company} Board Approves Massive Stock Buyback Program",
				},
				impactMin:       -0.03,
				impactMax:       0.05,
				durationMinutes: 120,
				scope:           models.NewsScopeSymbol,
			},
			{
				name: "product",
				templates: []string{
					"{company} Launches Revolutionary New Product Line",
					"{company} Recalls Flagship Product Due to Safety Concerns",
					"{company} Secures Major Government Contract",
				},
				impactMin:       -0.05,
				impactMax:       0.10,
				durationMinutes: 240,
				scope:           models.NewsScopeSymbol,
			},
		},
	},
	{
		name: "sector_wide",
		subcategories: []newsSubcategory{
			{
				name: "regulatory",
				templates: []string{
					"New Regulations Expected for {sector} Sector",
					"{sector} Stocks Rally on Unexpected Deregulation News",
					"Government Announces Antitrust Investigation into Top {sector} Firms",
				},
				impactMin:       -0.04,
				impactMax:       0.04,
				durationMinutes: 60,
				scope:           models.NewsScopeSector,
			},
		},
	},
	{
		name: "macro_economic",
		subcategories: []newsSubcategory{
			{
				name: "fed",
				templates: []string{
					"Federal Reserve Raises Interest Rates by 25 Basis Points",
					"Fed Chair Signals Pause in Rate Hikes Following Inflation Data",
					"FOMC Minutes Show Divided Views on Future Economic Policy",
				},
				impactMin:       -0.02,
				impactMax:       0.02,
				durationMinutes: 60,
				scope:           models.NewsScopeGlobal,
			},
			{
				name: "economic_data",
				templates: []string{
					"Jobs Report Shows Strong Growth, Crushing Estimates",
					"Inflation Data Comes In Hot, CPI Exceeds Expectations",
					"GDP Growth Slows to 1.5%, Below Forecasts",
				},
				impactMin:       -0.015,
				impactMax:       0.015,
				durationMinutes: 60,
				scope:           models.NewsScopeGlobal,
			},
		},
	},
}

// NewsEngine generates probabilistic market events from the static
// taxonomy. Stateless besides the table; deterministic given the RNG
// stream and sentiment input.
type NewsEngine struct {
	probability float64
	rng         *rand.Rand
}

func NewNewsEngine(rng *rand.Rand) *NewsEngine {
	return &NewsEngine{
		probability: defaultNewsProbability,
		rng:         rng,
	}
}

// NewNewsEngineWithProbability overrides the event gate, mainly for tests
// that need an event every cycle.
func NewNewsEngineWithProbability(probability float64, rng *rand.Rand) *NewsEngine {
	return &NewsEngine{
		probability: probability,
		rng:         rng,
	}
}

// GenerateNewsEvent emits at most one event per call. A nil result means
// the probability gate failed, never a failure.
func (e *NewsEngine) GenerateNewsEvent(sentiment models.MarketSentiment, activeSymbols []string, activeSectors []string) *models.NewsEvent {
	if e.rng.Float64() > e.probability {
		return nil
	}

	category := newsTaxonomy[e.rng.Intn(len(newsTaxonomy))]
	subcategory := category.subcategories[e.rng.Intn(len(category.subcategories))]
	template := subcategory.templates[e.rng.Intn(len(subcategory.templates))]

	target := "Market"
	sector := ""
	var affectedSymbols []string

	switch subcategory.scope {
	case models.NewsScopeSymbol:
		if len(activeSymbols) > 0 {
			target = activeSymbols[e.rng.Intn(len(activeSymbols))]
			affectedSymbols = []string{target}
		}
	case models.NewsScopeSector:
		if len(activeSectors) > 0 {
			target = activeSectors[e.rng.Intn(len(activeSectors))]
			sector = target
		}
	}

	headline := e.fillTemplate(template, target)

	impact := subcategory.impactMin + e.rng.Float64()*(subcategory.impactMax-subcategory.impactMin)
	impact /= impactDampening

	if sentiment == models.SentimentBullish && impact > 0 {
		impact *= sentimentAmplifier
	} else if sentiment == models.SentimentBearish && impact < 0 {
		impact *= sentimentAmplifier
	}

	return &models.NewsEvent{
		ID:              uuid.New(),
		Headline:        headline,
		Category:        category.name,
		Subcategory:     subcategory.name,
		Timestamp:       time.Now().UTC(),
		Impact:          impact,
		DurationMinutes: subcategory.durationMinutes,
		Scope:           subcategory.scope,
		Sector:          sector,
		AffectedSymbols: affectedSymbols,
	}
}

func (e *NewsEngine) fillTemplate(template string, target string) string {
	text := template

	text = strings.ReplaceAll(text, "{company}", target)
	text = strings.ReplaceAll(text, "{sector}", capitalize(target))

	if strings.Contains(text, "{quarter}") {
		text = strings.ReplaceAll(text, "{quarter}", fmt.Sprintf("%d", 1+e.rng.Intn(4)))
	}

	if strings.Contains(text, "{eps}") {
		text = strings.ReplaceAll(text, "{eps}", fmt.Sprintf("%.2f", 0.5+e.rng.Float64()*4.5))
	}

	isBeat := e.rng.Float64() > 0.5
	if strings.Contains(text, "{beat_or_miss}") {
		verb := "miss"
		if isBeat {
			verb = "beat"
		}
		text = strings.ReplaceAll(text, "{beat_or_miss}", verb)
	}
	if strings.Contains(text, "{beats_or_misses}") {
		verb := "Misses"
		if isBeat {
			verb = "Beats"
		}
		text = strings.ReplaceAll(text, "{beats_or_misses}", verb)
	}

	if strings.Contains(text, "{difference}") {
		text = strings.ReplaceAll(text, "{difference}", fmt.Sprintf("%.2f", 0.01+e.rng.Float64()*0.49))
	}
	if strings.Contains(text, "{revenue}") {
		text = strings.ReplaceAll(text, "{revenue}", fmt.Sprintf("%.1f", 1.0+e.rng.Float64()*49.0))
	}

	return text
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
