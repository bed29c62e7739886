package config

import (
	"fmt"
	"strings"

	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "HAIRI"

// Load 读取配置文件（可为空）和 HAIRI_ 前缀的环境变量，结果写入 Conf。
// 有配置文件时监听变更，变更后重新应用日志级别并回调 onChange
func Load(configFile string, onChange ...func(*Config)) error {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("读取配置文件出错: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return err
	}
	Conf = cfg

	if configFile != "" {
		v.OnConfigChange(func(in fsnotify.Event) {
			cfg, err := decode(v)
			if err != nil {
				log.Warn("配置文件 %s 变更后解析失败: %v", in.Name, err)
				return
			}
			log.SetLevel(cfg.Log.Level)
			log.Info("配置文件 %s 已重新加载", in.Name)
			for _, fn := range onChange {
				fn(cfg)
			}
		})
		v.WatchConfig()
	}
	return nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件出错: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验取值范围
func (c *Config) Validate() error {
	if c.Game.PlayerCount != 3 && c.Game.PlayerCount != 4 {
		return fmt.Errorf("game.playerCount must be 3 or 4, got %d", c.Game.PlayerCount)
	}
	switch c.Game.OrphanPolicy {
	case "standard", "reachable":
	default:
		return fmt.Errorf("game.orphanPolicy must be standard or reachable, got %q", c.Game.OrphanPolicy)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rateLimit values must not be negative, got %+v", c.RateLimit)
	}
	switch c.Store.Backend {
	case "", "mongo", "redis":
	default:
		return fmt.Errorf("store.backend must be empty, mongo or redis, got %q", c.Store.Backend)
	}
	return nil
}

// setDefaults 注册全部键，AutomaticEnv 只对已知的键生效
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("appName", d.AppName)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("game.playerCount", d.Game.PlayerCount)
	v.SetDefault("game.interactive", d.Game.Interactive)
	v.SetDefault("game.orphanPolicy", d.Game.OrphanPolicy)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.maxCost", d.Cache.MaxCost)
	v.SetDefault("cache.numCounters", d.Cache.NumCounters)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.keyPrefix", d.Store.KeyPrefix)
	v.SetDefault("store.ttl", d.Store.TTL)
	v.SetDefault("store.timeout", d.Store.Timeout)
	v.SetDefault("database.mongo.url", d.DatabaseConf.MongoConf.Url)
	v.SetDefault("database.mongo.db", d.DatabaseConf.MongoConf.Db)
	v.SetDefault("database.mongo.username", d.DatabaseConf.MongoConf.Username)
	v.SetDefault("database.mongo.password", d.DatabaseConf.MongoConf.Password)
	v.SetDefault("database.mongo.minPoolSize", d.DatabaseConf.MongoConf.MinPoolSize)
	v.SetDefault("database.mongo.maxPoolSize", d.DatabaseConf.MongoConf.MaxPoolSize)
	v.SetDefault("database.redis.addr", d.DatabaseConf.RedisConf.Addr)
	v.SetDefault("database.redis.password", d.DatabaseConf.RedisConf.Password)
	v.SetDefault("database.redis.db", d.DatabaseConf.RedisConf.DB)
	v.SetDefault("database.redis.poolSize", d.DatabaseConf.RedisConf.PoolSize)
	v.SetDefault("database.redis.minIdleConns", d.DatabaseConf.RedisConf.MinIdleConns)
	v.SetDefault("nats.url", d.Nats.URL)
	v.SetDefault("nats.subject", d.Nats.Subject)
	v.SetDefault("nats.commandSubject", d.Nats.CommandSubject)
	v.SetDefault("monitor.interval", d.Monitor.Interval)
	v.SetDefault("monitor.idleTTL", d.Monitor.IdleTTL)
	v.SetDefault("rateLimit.rps", d.RateLimit.RPS)
	v.SetDefault("rateLimit.burst", d.RateLimit.Burst)
	v.SetDefault("httpPort", d.HttpPort)
	v.SetDefault("metricPort", d.MetricPort)
}
