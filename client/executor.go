package client

import (
	"context"

	"github.com/originals/collab-client/client/internal/shardqueue"
)

// executor runs background cache refetches, FIFO per cache key.
type executor interface {
	Submit(ctx context.Context, key string, job shardqueue.Job) error
	Stop()
}

func newDefaultExecutor() (*shardqueue.ShardExecutor, error) {
	cfg, err := shardqueue.LoadConfig()
	if err != nil {
		return nil, err
	}
	return shardqueue.NewShardExecutor(cfg), nil
}
