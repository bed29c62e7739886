package database

import (
	"context"
	"fmt"

	"github.com/Futarimiti/riichi-hairi/common/config"
	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/redis/go-redis/v9"
)

type RedisManager struct {
	Cli *redis.Client
}

func NewRedis(ctx context.Context, redisConf config.RedisConf) (*RedisManager, error) {
	if redisConf.Addr == "" {
		return nil, fmt.Errorf("redis 未配置 addr")
	}
	cli := redis.NewClient(&redis.Options{
		Addr:         redisConf.Addr,
		Password:     redisConf.Password, // 如果没有密码，这个字段为空字符串，Redis会忽略
		DB:           redisConf.DB,
		PoolSize:     redisConf.PoolSize,
		MinIdleConns: redisConf.MinIdleConns,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis 连接错误: %w", err)
	}
	log.Info("redis 连接成功, addr: %s", redisConf.Addr)
	return &RedisManager{Cli: cli}, nil
}

func (r *RedisManager) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.Cli.Get(ctx, key)
}

func (r *RedisManager) Close() error {
	if r == nil || r.Cli == nil {
		return nil
	}
	if err := r.Cli.Close(); err != nil {
		log.Error("redis 关闭出错: %v", err)
		return err
	}
	return nil
}
