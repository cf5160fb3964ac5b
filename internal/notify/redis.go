package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "approvals"

// RedisInvalidator deletes cached views keyed as
// "<prefix>:<topic>:*" and, for product detail, "<prefix>:product-detail:<productID>"
// plus its "<productID>:*" sub-keys.
type RedisInvalidator struct {
	client *redis.Client
	prefix string
}

func NewRedisInvalidator(client *redis.Client, prefix string) *RedisInvalidator {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisInvalidator{client: client, prefix: prefix}
}

func (r *RedisInvalidator) Notify(ctx context.Context, change Change) error {
	for _, topic := range change.Topics {
		var err error
		if topic == TopicProductDetail {
			if change.ProductID == "" {
				continue
			}
			err = r.deleteProductDetail(ctx, change.ProductID)
		} else {
			err = r.deletePattern(ctx, fmt.Sprintf("%s:%s:*", r.prefix, topic))
		}
		if err != nil {
			return fmt.Errorf("invalidate %s: %w", topic, err)
		}
	}
	return nil
}

// deleteProductDetail drops the product's own key and its sub-keys only;
// "p1" must not reach "p10".
func (r *RedisInvalidator) deleteProductDetail(ctx context.Context, productID string) error {
	key := r.CacheKey(TopicProductDetail, productID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return err
	}
	return r.deletePattern(ctx, key+":*")
}

func (r *RedisInvalidator) deletePattern(ctx context.Context, pattern string) error {
	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// CacheKey builds the key a view should cache itself under so that
// invalidation reaches it.
func (r *RedisInvalidator) CacheKey(topic Topic, parts ...string) string {
	key := fmt.Sprintf("%s:%s", r.prefix, topic)
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func (r *RedisInvalidator) Close() error {
	return r.client.Close()
}
