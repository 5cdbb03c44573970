package shardqueue

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config tunes a ShardExecutor. Zero values are replaced by defaults in
// NewShardExecutor.
type Config struct {
	Shards         int           `envconfig:"SHARDS" default:"4"`
	QueueSize      int           `envconfig:"QUEUE_SIZE" default:"128"`
	EnqueueTimeout time.Duration `envconfig:"ENQUEUE_TIMEOUT" default:"100ms"`
	MaxAttempts    int           `envconfig:"MAX_ATTEMPTS" default:"1"`
	BaseBackoff    time.Duration `envconfig:"BASE_BACKOFF" default:"100ms"`
	MaxInterval    time.Duration `envconfig:"MAX_INTERVAL" default:"20s"`

	// ErrorHandler receives the final error of every failed job. It must not block.
	ErrorHandler func(error) `ignored:"true"`
}

// LoadConfig reads the executor settings from REFETCH_QUEUE_* variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("REFETCH_QUEUE", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
