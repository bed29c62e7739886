package container

import (
	"context"
	"fmt"
	"time"

	"github.com/Futarimiti/riichi-hairi/common/config"
	"github.com/Futarimiti/riichi-hairi/common/database"
	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/core/domain/repository"
	"github.com/Futarimiti/riichi-hairi/core/infrastructure/persistence"
)

// BaseContainer 基础容器，按存储后端只连接需要的数据库
type BaseContainer struct {
	mongo   *database.MongoManager
	redis   *database.RedisManager
	records repository.SessionRecordRepository
}

// NewBase 创建基础容器，store.Backend 为空时不连接任何数据库
func NewBase(ctx context.Context, store config.StoreConf, conf config.DatabaseConf) (*BaseContainer, error) {
	c := &BaseContainer{records: persistence.DisabledRepository{}}

	timeout := store.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var err error
	switch store.Backend {
	case "":
		log.Info("未配置存储后端，会话存档不可用")
	case "mongo":
		if c.mongo, err = database.NewMongo(ctx, conf.MongoConf); err != nil {
			return nil, err
		}
		c.records = persistence.NewMongoSessionRecordRepository(c.mongo)
	case "redis":
		if c.redis, err = database.NewRedis(ctx, conf.RedisConf); err != nil {
			return nil, err
		}
		c.records = persistence.NewRedisSessionRecordRepository(c.redis, store.KeyPrefix, store.TTL)
	default:
		return nil, fmt.Errorf("未知的存储后端: %s", store.Backend)
	}
	return c, nil
}

// GetRecords 获取会话存档仓储
func (c *BaseContainer) GetRecords() repository.SessionRecordRepository {
	return c.records
}

// Close 关闭所有资源
func (c *BaseContainer) Close() error {
	e1 := c.mongo.Close()
	e2 := c.redis.Close()
	if e1 != nil {
		log.Error("mongo 关闭失败: %v", e1)
	}
	if e2 != nil {
		log.Error("redis 关闭失败: %v", e2)
	}
	if e1 != nil {
		return e1
	}
	return e2
}
