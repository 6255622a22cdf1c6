package quotestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marketsim/marketsim/src/eventpubsub"
	"github.com/marketsim/marketsim/src/models"
)

const (
	quoteKeyPrefix = "market:quote:"
	opTimeout      = 2 * time.Second
)

// RedisQuoteStore holds the latest quote snapshot per symbol
// (last-write-wins, single producer) and mirrors ticks and news onto the
// Redis pub/sub channels consumed by the websocket relay.
type RedisQuoteStore struct {
	client *redis.Client
}

func NewRedisQuoteStore(client *redis.Client) *RedisQuoteStore {
	return &RedisQuoteStore{
		client: client,
	}
}

func quoteKey(symbol string) string {
	return quoteKeyPrefix + symbol
}

func (s *RedisQuoteStore) SetQuote(ctx context.Context, snapshot *models.QuoteSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("SetQuote: failed to marshal snapshot: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, quoteKey(snapshot.Symbol), payload, 0).Err(); err != nil {
		return fmt.Errorf("SetQuote: redis set failed: %w", err)
	}

	return nil
}

func (s *RedisQuoteStore) GetQuote(ctx context.Context, symbol string) (*models.QuoteSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	payload, err := s.client.Get(ctx, quoteKey(symbol)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("GetQuote %s: %w", symbol, models.ErrQuoteUnavailable)
	} else if err != nil {
		return nil, fmt.Errorf("GetQuote %s: redis get failed: %w", symbol, err)
	}

	var snapshot models.QuoteSnapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return nil, fmt.Errorf("GetQuote %s: failed to unmarshal snapshot: %w", symbol, err)
	}

	return &snapshot, nil
}

// GetQuotes fetches snapshots for several symbols in one MGET. Symbols
// without a snapshot are skipped.
func (s *RedisQuoteStore) GetQuotes(ctx context.Context, symbols []string) ([]*models.QuoteSnapshot, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	keys := make([]string, len(symbols))
	for i, symbol := range symbols {
		keys[i] = quoteKey(symbol)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("GetQuotes: redis mget failed: %w", err)
	}

	var snapshots []*models.QuoteSnapshot
	for _, val := range results {
		payload, ok := val.(string)
		if !ok || payload == "" {
			continue
		}

		var snapshot models.QuoteSnapshot
		if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
			return nil, fmt.Errorf("GetQuotes: failed to unmarshal snapshot: %w", err)
		}

		snapshots = append(snapshots, &snapshot)
	}

	return snapshots, nil
}

// RedisBroadcaster publishes ticks and news to the Redis channels that the
// out-of-process relay subscribes to, using the same topic names as the
// in-process bus.
type RedisBroadcaster struct {
	client *redis.Client
}

func NewRedisBroadcaster(client *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{
		client: client,
	}
}

func (b *RedisBroadcaster) PublishTick(tick *models.Tick) error {
	payload, err := json.Marshal(tick)
	if err != nil {
		return fmt.Errorf("PublishTick: failed to marshal tick: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := b.client.Publish(ctx, eventpubsub.TopicTicks(tick.Symbol), payload).Err(); err != nil {
		return fmt.Errorf("PublishTick: redis publish failed: %w", err)
	}

	if err := b.client.Publish(ctx, eventpubsub.TopicTicksGlobal, payload).Err(); err != nil {
		return fmt.Errorf("PublishTick: redis publish to global feed failed: %w", err)
	}

	return nil
}

func (b *RedisBroadcaster) PublishNews(event *models.NewsEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("PublishNews: failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := b.client.Publish(ctx, eventpubsub.TopicNewsGlobal, payload).Err(); err != nil {
		return fmt.Errorf("PublishNews: redis publish failed: %w", err)
	}

	return nil
}
