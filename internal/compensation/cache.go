package compensation

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"realty-crm/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	rateCacheKey      = "crm:salary:rates"
	rateGenerationKey = "crm:salary:rates:gen"
)

func rateKey(gen int64) string {
	return rateCacheKey + ":" + strconv.FormatInt(gen, 10)
}

// RateCache holds the whole rate table under one Redis key per generation.
// Invalidate bumps the generation, so a table loaded before an update is
// written under a key nobody reads again.
type RateCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRateCache(client redis.Cmdable, ttl time.Duration) *RateCache {
	return &RateCache{client: client, ttl: ttl}
}

// Get returns the current generation with the cached table. A miss is
// ok=false with a nil error; the generation is still valid for Set.
func (c *RateCache) Get(ctx context.Context) (models.RateTable, int64, bool, error) {
	gen, err := c.client.Get(ctx, rateGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, err
	}

	raw, err := c.client.Get(ctx, rateKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	var stored map[string]decimal.Decimal
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, 0, false, err
	}
	table := make(models.RateTable, len(stored))
	for name, rate := range stored {
		table[models.SalaryParameterName(name)] = rate
	}
	return table, gen, true, nil
}

// Set stores table for gen, the generation observed by the Get that missed.
func (c *RateCache) Set(ctx context.Context, gen int64, table models.RateTable) error {
	stored := make(map[string]decimal.Decimal, len(table))
	for name, rate := range table {
		stored[string(name)] = rate
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, rateKey(gen), raw, c.ttl).Err()
}

func (c *RateCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, rateGenerationKey).Err()
}
