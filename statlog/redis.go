package statlog

import (
	"context"
	"fmt"
	"time"

	"github.com/MrEthical07/goStats/stat"
	"github.com/redis/go-redis/v9"
	"github.com/sugawarayuuta/sonnet"
)

const (
	DefaultRedisPrefix  = "gostats"
	DefaultRedisTimeout = 2 * time.Second
)

// RedisConfig configures the redis sink.
type RedisConfig struct {
	Prefix string `toml:"prefix"`
	// Channel, when set, also receives each snapshot as a JSON Payload.
	Channel string        `toml:"channel"`
	Timeout time.Duration `toml:"timeout"`
	// TTL expires the snapshot hash when positive.
	TTL time.Duration `toml:"ttl"`
}

// Redis stores the latest snapshot of each tracker in a hash keyed
// "<prefix>:<display>". Fields are the stat names plus "_ts" (unix millis of
// the scheduled time) and "_uid". Null stats are stored as "null".
//
// The client is owned by the caller; Close does not close it.
type Redis struct {
	client   redis.UniversalClient
	cfg      RedisConfig
	instance string
}

// NewRedis returns a Redis sink.
func NewRedis(client redis.UniversalClient, cfg RedisConfig, instance string) (*Redis, error) {
	if client == nil {
		return nil, ErrNilRedis
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultRedisPrefix
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRedisTimeout
	}
	return &Redis{client: client, cfg: cfg, instance: instance}, nil
}

// Key returns the hash key for a tracker display name.
func (r *Redis) Key(display string) string {
	return r.cfg.Prefix + ":" + display
}

func (r *Redis) Log(id stat.ID, tracker stat.Tracker, scheduled time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.Timeout)
	defer cancel()

	values := tracker.Snapshot()
	key := r.Key(id.Display())
	fields := make(map[string]any, len(values)+2)
	fields["_ts"] = scheduled.UnixMilli()
	fields["_uid"] = id.UID()
	for _, v := range values {
		fields[v.Name] = v.Text()
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	if r.cfg.TTL > 0 {
		pipe.Expire(ctx, key, r.cfg.TTL)
	}
	if r.cfg.Channel != "" {
		data, err := sonnet.Marshal(NewPayload(r.instance, "", id, values, scheduled))
		if err != nil {
			return fmt.Errorf("encode %s: %w", id.Display(), err)
		}
		pipe.Publish(ctx, r.cfg.Channel, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error { return nil }
