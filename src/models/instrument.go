package models

// Market identifies which cash balance an instrument trades against.
type Market string

const (
	MarketIndia  Market = "india"
	MarketUSA    Market = "usa"
	MarketUK     Market = "uk"
	MarketCrypto Market = "crypto"
)

func (m Market) IsValid() bool {
	switch m {
	case MarketIndia, MarketUSA, MarketUK, MarketCrypto:
		return true
	}

	return false
}

// Instrument is the immutable reference data that seeds a price model at
// startup. BasePrice doubles as the session open/previous close for the
// heuristic OHLC fields on published snapshots.
type Instrument struct {
	Symbol     string  `yaml:"symbol"`
	Name       string  `yaml:"name"`
	Sector     string  `yaml:"sector"`
	Market     Market  `yaml:"market"`
	BasePrice  float64 `yaml:"price"`
	Drift      float64 `yaml:"drift"`
	Volatility float64 `yaml:"volatility"`
	Model      string  `yaml:"model"`
}
