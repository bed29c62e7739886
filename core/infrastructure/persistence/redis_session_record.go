package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Futarimiti/riichi-hairi/common/database"
	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/core/domain/entity"
	"github.com/Futarimiti/riichi-hairi/core/domain/repository"
	"github.com/redis/go-redis/v9"
)

// RedisSessionRecordRepository 存档以 JSON 保存在 prefix+id 下，
// prefix+"index" 是按创建时间排序的有序集合
type RedisSessionRecordRepository struct {
	redis  *database.RedisManager
	prefix string
	ttl    time.Duration
}

func NewRedisSessionRecordRepository(redis *database.RedisManager, prefix string, ttl time.Duration) repository.SessionRecordRepository {
	return &RedisSessionRecordRepository{redis: redis, prefix: prefix, ttl: ttl}
}

func (r *RedisSessionRecordRepository) key(id string) string {
	return r.prefix + id
}

func (r *RedisSessionRecordRepository) indexKey() string {
	return r.prefix + "index"
}

func (r *RedisSessionRecordRepository) Save(ctx context.Context, record *entity.SessionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	pipe := r.redis.Cli.TxPipeline()
	pipe.Set(ctx, r.key(record.ID), data, r.ttl)
	pipe.ZAdd(ctx, r.indexKey(), redis.Z{
		Score:  float64(record.CreatedAt.UnixMilli()),
		Member: record.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error("保存会话存档失败: %v", err)
		return errors.Join(repository.ErrRedis, err)
	}
	return nil
}

func (r *RedisSessionRecordRepository) FindByID(ctx context.Context, id string) (*entity.SessionRecord, error) {
	data, err := r.redis.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrRecordNotFound
		}
		log.Error("查询会话存档失败: %v", err)
		return nil, errors.Join(repository.ErrRedis, err)
	}

	var record entity.SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// expiredBefore 索引分值小于返回值的存档必然已过期。
// 分值是创建时间，键在创建之后才写入，所以键的过期时刻不早于 分值+ttl
func (r *RedisSessionRecordRepository) expiredBefore(now time.Time) (int64, bool) {
	if r.ttl <= 0 {
		return 0, false
	}
	return now.Add(-r.ttl).UnixMilli(), true
}

// List 分页前先按 ttl 清掉索引里必然过期的成员；
// 其余提前消失的键（被驱逐或手动删除）在读取时清理，并重取当前页，保证页不短
func (r *RedisSessionRecordRepository) List(ctx context.Context, limit, offset int) ([]*entity.SessionRecord, error) {
	if limit <= 0 {
		return []*entity.SessionRecord{}, nil
	}
	if cutoff, ok := r.expiredBefore(time.Now()); ok {
		if err := r.redis.Cli.ZRemRangeByScore(ctx, r.indexKey(), "-inf", "("+strconv.FormatInt(cutoff, 10)).Err(); err != nil {
			log.Warn("清理过期存档索引失败: %v", err)
		}
	}

	for {
		records, expired, err := r.page(ctx, limit, offset)
		if err != nil || len(expired) == 0 {
			return records, err
		}
		if err := r.redis.Cli.ZRem(ctx, r.indexKey(), expired...).Err(); err != nil {
			log.Warn("清理存档索引失败: %v", err)
			return records, nil
		}
	}
}

// page 读取一页，返回解析出的存档和键已不存在的成员
func (r *RedisSessionRecordRepository) page(ctx context.Context, limit, offset int) ([]*entity.SessionRecord, []any, error) {
	ids, err := r.redis.Cli.ZRevRange(ctx, r.indexKey(), int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, nil, errors.Join(repository.ErrRedis, err)
	}
	if len(ids) == 0 {
		return []*entity.SessionRecord{}, nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	values, err := r.redis.Cli.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, errors.Join(repository.ErrRedis, err)
	}

	records := make([]*entity.SessionRecord, 0, len(values))
	var expired []any
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var record entity.SessionRecord
		if err := json.Unmarshal([]byte(s), &record); err != nil {
			log.Warn("会话存档 %s 解析失败: %v", ids[i], err)
			continue
		}
		records = append(records, &record)
	}
	return records, expired, nil
}
