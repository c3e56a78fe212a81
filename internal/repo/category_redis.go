package repo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCategoryRegistry stores each account's labels in a Redis set. SADD makes
// concurrent registration of the same label a no-op.
type RedisCategoryRegistry struct {
	rdb     *redis.Client
	timeout time.Duration
}

func NewRedisCategoryRegistry(rdb *redis.Client, timeout time.Duration) *RedisCategoryRegistry {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &RedisCategoryRegistry{rdb: rdb, timeout: timeout}
}

func categoriesKey(accountID string) string {
	return fmt.Sprintf("inventory:%s:categories", accountID)
}

func (r *RedisCategoryRegistry) Add(ctx context.Context, accountID, label string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	added, err := r.rdb.SAdd(ctx, categoriesKey(accountID), label).Result()
	if err != nil {
		return false, unavailable("add category", err)
	}
	return added == 1, nil
}

func (r *RedisCategoryRegistry) List(ctx context.Context, accountID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	labels, err := r.rdb.SMembers(ctx, categoriesKey(accountID)).Result()
	if err != nil {
		return nil, unavailable("list categories", err)
	}
	sort.Strings(labels)
	return labels, nil
}
