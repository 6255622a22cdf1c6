package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/marketsim/marketsim/src/models"
	"github.com/marketsim/marketsim/src/utils"
)

type Config struct {
	RedisURL        string              `yaml:"redis_url"`
	DatabaseURL     string              `yaml:"database_url"`
	StartingBalance float64             `yaml:"starting_balance"`
	NewsProbability float64             `yaml:"news_probability"`
	PacingMinMs     int                 `yaml:"pacing_min_ms"`
	PacingMaxMs     int                 `yaml:"pacing_max_ms"`
	Instruments     []models.Instrument `yaml:"instruments"`
}

// Load reads the YAML config file if present, fills defaults, and lets
// REDIS_URL / DATABASE_URL env vars override the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.RedisURL = utils.GetEnv("REDIS_URL", cfg.RedisURL)
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://localhost:6379/0"
	}

	cfg.DatabaseURL = utils.GetEnv("DATABASE_URL", cfg.DatabaseURL)

	if cfg.StartingBalance <= 0 {
		cfg.StartingBalance = models.DefaultStartingBalance
	}
	if cfg.NewsProbability <= 0 {
		cfg.NewsProbability = 0.01
	}
	if cfg.PacingMinMs <= 0 {
		cfg.PacingMinMs = 500
	}
	if cfg.PacingMaxMs <= cfg.PacingMinMs {
		cfg.PacingMaxMs = 2000
	}
	if len(cfg.Instruments) == 0 {
		cfg.Instruments = DefaultInstruments()
	}

	return cfg, nil
}

// DefaultInstruments is the built-in simulated universe: Indian, US and UK
// indices and large caps plus major crypto assets.
func DefaultInstruments() []models.Instrument {
	return []models.Instrument{
		// Indian indices
		{Symbol: "NIFTY 50", Name: "Nifty 50", Sector: "index", Market: models.MarketIndia, BasePrice: 21495.70, Volatility: 0.15, Drift: 0.08},
		{Symbol: "BANKNIFTY", Name: "Bank Nifty", Sector: "index", Market: models.MarketIndia, BasePrice: 47854.20, Volatility: 0.22, Drift: 0.10},
		{Symbol: "SENSEX", Name: "Sensex", Sector: "index", Market: models.MarketIndia, BasePrice: 71350.50, Volatility: 0.14, Drift: 0.08},
		{Symbol: "NIFTY IT", Name: "Nifty IT", Sector: "index", Market: models.MarketIndia, BasePrice: 35240.10, Volatility: 0.20, Drift: 0.12},

		// Indian stocks
		{Symbol: "RELIANCE", Name: "Reliance Industries", Sector: "energy", Market: models.MarketIndia, BasePrice: 2580.40, Volatility: 0.18, Drift: 0.10},
		{Symbol: "TCS", Name: "Tata Consultancy Services", Sector: "technology", Market: models.MarketIndia, BasePrice: 3820.10, Volatility: 0.15, Drift: 0.09},
		{Symbol: "HDFCBANK", Name: "HDFC Bank", Sector: "financialServices", Market: models.MarketIndia, BasePrice: 1680.90, Volatility: 0.18, Drift: 0.11},
		{Symbol: "INFY", Name: "Infosys", Sector: "technology", Market: models.MarketIndia, BasePrice: 1540.25, Volatility: 0.22, Drift: 0.12},
		{Symbol: "ICICIBANK", Name: "ICICI Bank", Sector: "financialServices", Market: models.MarketIndia, BasePrice: 1020.50, Volatility: 0.20, Drift: 0.14},
		{Symbol: "SBIN", Name: "State Bank of India", Sector: "financialServices", Market: models.MarketIndia, BasePrice: 635.80, Volatility: 0.25, Drift: 0.15},
		{Symbol: "BHARTIARTL", Name: "Bharti Airtel", Sector: "communicationServices", Market: models.MarketIndia, BasePrice: 1030.40, Volatility: 0.21, Drift: 0.08},
		{Symbol: "ITC", Name: "ITC", Sector: "consumerDefensive", Market: models.MarketIndia, BasePrice: 465.20, Volatility: 0.12, Drift: 0.05},
		{Symbol: "L&T", Name: "Larsen & Toubro", Sector: "industrials", Market: models.MarketIndia, BasePrice: 3450.60, Volatility: 0.23, Drift: 0.13},
		{Symbol: "TATASTEEL", Name: "Tata Steel", Sector: "basicMaterials", Market: models.MarketIndia, BasePrice: 132.40, Volatility: 0.28, Drift: 0.04},

		// US indices
		{Symbol: "S&P 500", Name: "S&P 500", Sector: "index", Market: models.MarketUSA, BasePrice: 4780.20, Volatility: 0.12, Drift: 0.08},
		{Symbol: "NASDAQ", Name: "Nasdaq Composite", Sector: "index", Market: models.MarketUSA, BasePrice: 15200.50, Volatility: 0.18, Drift: 0.10},
		{Symbol: "DOW JONES", Name: "Dow Jones Industrial Average", Sector: "index", Market: models.MarketUSA, BasePrice: 37600.40, Volatility: 0.10, Drift: 0.06},
		{Symbol: "RUSSELL 2000", Name: "Russell 2000", Sector: "index", Market: models.MarketUSA, BasePrice: 1980.20, Volatility: 0.16, Drift: 0.08},

		// US stocks
		{Symbol: "AAPL", Name: "Apple", Sector: "technology", Market: models.MarketUSA, BasePrice: 192.50, Volatility: 0.15, Drift: 0.08},
		{Symbol: "MSFT", Name: "Microsoft", Sector: "technology", Market: models.MarketUSA, BasePrice: 390.20, Volatility: 0.14, Drift: 0.10},
		{Symbol: "NVDA", Name: "NVIDIA", Sector: "technology", Market: models.MarketUSA, BasePrice: 540.80, Volatility: 0.30, Drift: 0.20, Model: models.ModelKindJumpDiffusion},
		{Symbol: "TSLA", Name: "Tesla", Sector: "consumerCyclical", Market: models.MarketUSA, BasePrice: 240.50, Volatility: 0.40, Drift: 0.15, Model: models.ModelKindJumpDiffusion},
		{Symbol: "AMZN", Name: "Amazon", Sector: "consumerCyclical", Market: models.MarketUSA, BasePrice: 155.20, Volatility: 0.20, Drift: 0.12},
		{Symbol: "META", Name: "Meta Platforms", Sector: "communicationServices", Market: models.MarketUSA, BasePrice: 360.40, Volatility: 0.25, Drift: 0.15},
		{Symbol: "GOOGL", Name: "Alphabet", Sector: "communicationServices", Market: models.MarketUSA, BasePrice: 140.80, Volatility: 0.18, Drift: 0.10},
		{Symbol: "BRK.B", Name: "Berkshire Hathaway", Sector: "financialServices", Market: models.MarketUSA, BasePrice: 360.20, Volatility: 0.10, Drift: 0.06},
		{Symbol: "JPM", Name: "JPMorgan Chase", Sector: "financialServices", Market: models.MarketUSA, BasePrice: 170.50, Volatility: 0.14, Drift: 0.08},
		{Symbol: "JNJ", Name: "Johnson & Johnson", Sector: "healthcare", Market: models.MarketUSA, BasePrice: 158.40, Volatility: 0.10, Drift: 0.05},

		// UK indices
		{Symbol: "FTSE 100", Name: "FTSE 100", Sector: "index", Market: models.MarketUK, BasePrice: 7680.50, Volatility: 0.12, Drift: 0.05},
		{Symbol: "FTSE 250", Name: "FTSE 250", Sector: "index", Market: models.MarketUK, BasePrice: 19200.40, Volatility: 0.15, Drift: 0.06},
		{Symbol: "FTSE AIM 100", Name: "FTSE AIM 100", Sector: "index", Market: models.MarketUK, BasePrice: 3800.20, Volatility: 0.20, Drift: 0.08},
		{Symbol: "FTSE techMARK", Name: "FTSE techMARK", Sector: "index", Market: models.MarketUK, BasePrice: 4500.80, Volatility: 0.18, Drift: 0.10},

		// UK stocks
		{Symbol: "SHEL", Name: "Shell", Sector: "energy", Market: models.MarketUK, BasePrice: 2500.40, Volatility: 0.14, Drift: 0.06},
		{Symbol: "AZN", Name: "AstraZeneca", Sector: "healthcare", Market: models.MarketUK, BasePrice: 10800.50, Volatility: 0.16, Drift: 0.08},
		{Symbol: "HSBA", Name: "HSBC Holdings", Sector: "financialServices", Market: models.MarketUK, BasePrice: 630.20, Volatility: 0.12, Drift: 0.05},
		{Symbol: "ULVR", Name: "Unilever", Sector: "consumerDefensive", Market: models.MarketUK, BasePrice: 3800.40, Volatility: 0.10, Drift: 0.04},
		{Symbol: "BP", Name: "BP", Sector: "energy", Market: models.MarketUK, BasePrice: 480.50, Volatility: 0.16, Drift: 0.06},
		{Symbol: "GSK", Name: "GSK", Sector: "healthcare", Market: models.MarketUK, BasePrice: 1500.20, Volatility: 0.14, Drift: 0.05},
		{Symbol: "BATS", Name: "British American Tobacco", Sector: "consumerDefensive", Market: models.MarketUK, BasePrice: 2300.80, Volatility: 0.12, Drift: 0.04},
		{Symbol: "RIO", Name: "Rio Tinto", Sector: "basicMaterials", Market: models.MarketUK, BasePrice: 5400.40, Volatility: 0.20, Drift: 0.08},
		{Symbol: "DGE", Name: "Diageo", Sector: "consumerDefensive", Market: models.MarketUK, BasePrice: 2800.50, Volatility: 0.12, Drift: 0.05},
		{Symbol: "GLEN", Name: "Glencore", Sector: "basicMaterials", Market: models.MarketUK, BasePrice: 460.20, Volatility: 0.22, Drift: 0.09},

		// Crypto
		{Symbol: "BTC", Name: "Bitcoin", Sector: "crypto", Market: models.MarketCrypto, BasePrice: 43000.50, Volatility: 0.45, Drift: 0.15, Model: models.ModelKindGARCH},
		{Symbol: "ETH", Name: "Ethereum", Sector: "crypto", Market: models.MarketCrypto, BasePrice: 2300.20, Volatility: 0.55, Drift: 0.20, Model: models.ModelKindGARCH},
		{Symbol: "USDT", Name: "Tether", Sector: "crypto", Market: models.MarketCrypto, BasePrice: 1.00, Volatility: 0.01, Drift: 0.0},
		{Symbol: "BNB", Name: "BNB", Sector: "crypto", Market: models.MarketCrypto, BasePrice: 310.40, Volatility: 0.50, Drift: 0.15},
		{Symbol: "SOL", Name: "Solana", Sector: "crypto", Market: models.MarketCrypto, BasePrice: 105.80, Volatility: 0.70, Drift: 0.25, Model: models.ModelKindJumpDiffusion},
		{Symbol: "XRP", Name: "XRP", Sector: "crypto", Market: models.MarketCrypto, BasePrice: 0.55, Volatility: 0.60, Drift: 0.10},
		{Symbol: "USDC", Name: "USD Coin", Sector: "crypto", Market: models.MarketCrypto, BasePrice: 1.00, Volatility: 0.01, Drift: 0.0},
		{Symbol: "ADA", Name: "Cardano", Sector: "crypto", Market: models.MarketCrypto, BasePrice: 0.52, Volatility: 0.65, Drift: 0.15},
		{Symbol: "AVAX", Name: "Avalanche", Sector: "crypto", Market: models.MarketCrypto, BasePrice: 35.40, Volatility: 0.75, Drift: 0.20},
		{Symbol: "DOGE", Name: "Dogecoin", Sector: "crypto", Market: models.MarketCrypto, BasePrice: 0.08, Volatility: 0.80, Drift: 0.10},
	}
}
