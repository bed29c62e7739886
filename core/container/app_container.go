package container

import (
	"context"
	"time"

	"github.com/Futarimiti/riichi-hairi/common/cache"
	"github.com/Futarimiti/riichi-hairi/common/config"
	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/core/infrastructure/message"
	"github.com/Futarimiti/riichi-hairi/framework/game"
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

// AppContainer 服务进程的全部依赖
type AppContainer struct {
	*BaseContainer
	Memo        *cache.GeneralCache
	RoomManager *game.RoomManager
	Monitor     *game.Monitor
	Publisher   message.Publisher
	Worker      *game.Worker

	memo mahjong.Memo
}

// Rules 由配置得到计算规则
func Rules(conf *config.Config) mahjong.Rules {
	return mahjong.Rules{
		Players: mahjong.PlayerCount(conf.Game.PlayerCount),
		Orphans: mahjong.OrphanPolicy(conf.Game.OrphanPolicy),
	}
}

// NewMemo cache.enabled 为 false 时返回 nil
func NewMemo(conf config.CacheConf) (*cache.GeneralCache, error) {
	if !conf.Enabled {
		return nil, nil
	}
	return cache.NewGeneralCache(conf.MaxCost, conf.NumCounters, conf.TTL)
}

// NewAppContainer 创建服务容器，NATS 未配置时使用空发布者且不启动 Worker
func NewAppContainer(ctx context.Context, conf *config.Config) (*AppContainer, error) {
	base, err := NewBase(ctx, conf.Store, conf.DatabaseConf)
	if err != nil {
		return nil, err
	}

	memo, err := NewMemo(conf.Cache)
	if err != nil {
		_ = base.Close()
		return nil, err
	}

	var m mahjong.Memo
	if memo != nil {
		m = memo
	}
	rm := game.NewRoomManager(Rules(conf), m)

	c := &AppContainer{
		BaseContainer: base,
		Memo:          memo,
		RoomManager:   rm,
		Monitor:       game.NewMonitor(rm, conf.Monitor.Interval, conf.Monitor.IdleTTL),
		Publisher:     message.NopPublisher{},
		memo:          m,
	}

	if conf.Nats.URL == "" {
		return c, nil
	}
	pub, err := message.NewNatsPublisher(conf.AppName+"-publisher", conf.Nats.URL, conf.Nats.Subject)
	if err != nil {
		log.Warn("NATS 不可用，快照不推送: %v", err)
	} else {
		c.Publisher = pub
	}
	if conf.Nats.CommandSubject != "" {
		w := game.NewWorker(conf.AppName, rm)
		if err := w.Start(ctx, conf.Nats.URL, conf.Nats.CommandSubject); err != nil {
			log.Warn("NATS Worker 启动失败: %v", err)
		} else {
			c.Worker = w
		}
	}
	return c, nil
}

// SearchMemo 未启用缓存时返回 nil 接口
func (c *AppContainer) SearchMemo() mahjong.Memo {
	return c.memo
}

// Close 关闭容器资源
func (c *AppContainer) Close() error {
	c.Monitor.Stop()
	if c.Worker != nil {
		c.Worker.Close()
	}
	if err := c.Publisher.Close(); err != nil {
		log.Error("发布者关闭失败: %v", err)
	}
	if c.Memo != nil {
		c.Memo.Close()
	}
	return c.BaseContainer.Close()
}

// StoreTimeout 存储操作的超时
func StoreTimeout(conf *config.Config) time.Duration {
	if conf.Store.Timeout <= 0 {
		return 5 * time.Second
	}
	return conf.Store.Timeout
}
