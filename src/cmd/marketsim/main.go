package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/marketsim/marketsim/src/config"
	"github.com/marketsim/marketsim/src/dbutils"
	"github.com/marketsim/marketsim/src/eventpubsub"
	"github.com/marketsim/marketsim/src/quotestore"
	"github.com/marketsim/marketsim/src/services"
	"github.com/marketsim/marketsim/src/simulation"
	"github.com/marketsim/marketsim/src/utils"
)

type RunArgs struct {
	ConfigPath string
}

var runCmd = &cobra.Command{
	Use:   "marketsim",
	Short: "Run the synthetic market simulation and order execution engine",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config flag: %v", err)
		}

		if err := Run(RunArgs{ConfigPath: configPath}); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func Run(args RunArgs) error {
	if err := utils.InitEnvironmentVariables(); err != nil {
		return err
	}

	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return err
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return err
	}
	client := redis.NewClient(opts)

	quotes := quotestore.NewRedisQuoteStore(client)
	bus := eventpubsub.NewBus()
	broadcaster := simulation.NewMultiBroadcaster(bus, quotestore.NewRedisBroadcaster(client))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	news := simulation.NewNewsEngineWithProbability(cfg.NewsProbability, rng)

	engine := simulation.NewEngine(cfg.Instruments, quotes, broadcaster, news, rng)
	engine.SetPacing(time.Duration(cfg.PacingMinMs)*time.Millisecond, time.Duration(cfg.PacingMaxMs)*time.Millisecond)

	if cfg.DatabaseURL != "" {
		db, err := dbutils.InitPostgresWithUrl(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		store := services.NewGormTradingStore(db)
		orderService := services.NewOrderService(store, quotes, cfg.StartingBalance)
		registerOrderService(orderService)
	} else {
		log.Warn("DATABASE_URL not set: running the simulation without order execution")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	engine.Run(ctx)
	bus.WaitAsync()

	return nil
}

// orderServiceRegistry is where the API layer picks up the order service.
var orderServiceRegistry *services.OrderService

func registerOrderService(service *services.OrderService) {
	orderServiceRegistry = service
	log.Info("order execution service ready")
}

func main() {
	runCmd.PersistentFlags().String("config", "", "path to YAML config file")

	if err := runCmd.Execute(); err != nil {
		log.Fatalf("error executing command: %v", err)
	}
}
