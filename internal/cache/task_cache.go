package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "Tracker/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const keyPrefix = "tasks:"

// TaskCache caches list results in Redis, keyed per owner and filter.
// Every write for an owner invalidates all of that owner's keys.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// FilterKey renders a filter as a stable cache key fragment. Absent fields
// render as "*" so that distinct filter combinations never collide.
func FilterKey(f dom.TaskFilter) string {
	status, priority, archived := "*", "*", "*"
	if f.Status != nil {
		status = string(*f.Status)
	}
	if f.Priority != nil {
		priority = string(*f.Priority)
	}
	if f.Archived != nil {
		if *f.Archived {
			archived = "true"
		} else {
			archived = "false"
		}
	}
	return status + ":" + priority + ":" + archived
}

func listKey(ownerID primitive.ObjectID, f dom.TaskFilter) string {
	return keyPrefix + ownerID.Hex() + ":" + FilterKey(f)
}

// GetList returns the cached result for the owner and filter, or nil on miss.
func (c *TaskCache) GetList(ctx context.Context, ownerID primitive.ObjectID, f dom.TaskFilter) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, listKey(ownerID, f)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the result in cache.
func (c *TaskCache) SetList(ctx context.Context, ownerID primitive.ObjectID, f dom.TaskFilter, list []dom.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(ownerID, f), b, c.ttl).Err()
}

// InvalidateOwner removes every cached list for the owner (cache
// invalidation on write).
func (c *TaskCache) InvalidateOwner(ctx context.Context, ownerID primitive.ObjectID) error {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+ownerID.Hex()+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
