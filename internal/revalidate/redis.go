package revalidate

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const viewKeyPrefix = "crm:view:"

// ViewKey is the cache key a reader stores a rendered view under.
func ViewKey(view string) string {
	return viewKeyPrefix + view
}

// RedisSink drops cached views and announces the change on a pub/sub channel.
type RedisSink struct {
	client  redis.Cmdable
	channel string
}

func NewRedisSink(client redis.Cmdable, channel string) *RedisSink {
	if channel == "" {
		channel = "crm.revalidate"
	}
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Send(ctx context.Context, sig Signal) error {
	keys := make([]string, len(sig.Views))
	for i, v := range sig.Views {
		keys[i] = ViewKey(v)
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return err
	}

	body, err := json.Marshal(sig)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel, body).Err()
}
