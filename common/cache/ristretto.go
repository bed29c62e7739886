package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// GeneralCache 通用本地缓存，支持 TTL
// 写入是异步的，Set 之后立刻 Get 不一定命中
type GeneralCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewGeneralCache 创建通用缓存
// maxCost: 最大成本，每个条目成本为 1 时即为条目数上限
// numCounters: 频率计数器个数，建议为条目数上限的 10 倍
// ttl: 默认过期时间，0 表示不过期
func NewGeneralCache(maxCost, numCounters int64, ttl time.Duration) (*GeneralCache, error) {
	if numCounters <= 0 {
		numCounters = maxCost * 10
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 ristretto 缓存失败: %w", err)
	}

	return &GeneralCache{
		cache: cache,
		ttl:   ttl,
	}, nil
}

// Set 设置缓存，使用默认 TTL
func (c *GeneralCache) Set(key string, value interface{}) bool {
	return c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL 设置缓存，指定 TTL
func (c *GeneralCache) SetWithTTL(key string, value interface{}, ttl time.Duration) bool {
	return c.cache.SetWithTTL(key, value, 1, ttl)
}

// Get 获取缓存
func (c *GeneralCache) Get(key string) (interface{}, bool) {
	return c.cache.Get(key)
}

// Wait 等待缓冲中的写入生效
func (c *GeneralCache) Wait() {
	c.cache.Wait()
}

// Hits 命中次数
func (c *GeneralCache) Hits() uint64 {
	if c.cache.Metrics == nil {
		return 0
	}
	return c.cache.Metrics.Hits()
}

// Delete 删除缓存
func (c *GeneralCache) Delete(key string) {
	c.cache.Del(key)
}

// Close 关闭缓存
func (c *GeneralCache) Close() {
	c.cache.Close()
}
