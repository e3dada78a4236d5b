package camunda

import (
	"context"
	"fmt"
	"time"

	"realty-crm/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	MaxAttempts            int
	InitialBackoff         time.Duration
}

// Connect creates a Zeebe client and waits until the gateway answers a
// topology request, backing off exponentially between attempts.
func Connect(ctx context.Context, cfg ClientConfig, log logger.Logger) (zbc.Client, error) {
	if cfg.ConnectionTimeout == 0 {
		cfg.ConnectionTimeout = 10 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 10
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = 2 * time.Second
	}

	var client zbc.Client
	err := RetryWithBackoff(ctx, func() error {
		c, err := zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.GatewayAddress,
			UsePlaintextConnection: cfg.UsePlaintextConnection,
		})
		if err != nil {
			return err
		}
		if err := HealthCheck(ctx, c, cfg.ConnectionTimeout); err != nil {
			_ = c.Close()
			return err
		}
		client = c
		return nil
	}, cfg.MaxAttempts, cfg.InitialBackoff, log, "zeebe connection")
	if err != nil {
		return nil, err
	}
	return client, nil
}

func HealthCheck(ctx context.Context, client zbc.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

// RetryWithBackoff runs operation up to maxAttempts times, doubling the delay
// after each failure.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxAttempts; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if i == maxAttempts-1 {
			break
		}

		log.Warn(operationName+" failed, retrying", map[string]interface{}{
			"error":       err.Error(),
			"attempt":     i + 1,
			"maxAttempts": maxAttempts,
			"nextRetryIn": delay.String(),
		})

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after %d attempts: %w", operationName, i+1, ctx.Err())
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxAttempts, err)
}
