package config

import "time"

var Conf = Default()

type Config struct {
	AppName      string       `mapstructure:"appName"`
	Log          LogConf      `mapstructure:"log"`
	Game         GameConf     `mapstructure:"game"`
	Cache        CacheConf    `mapstructure:"cache"`
	Store        StoreConf    `mapstructure:"store"`
	DatabaseConf DatabaseConf `mapstructure:"database"`
	Nats         NatsConfig   `mapstructure:"nats"`
	Monitor      MonitorConf  `mapstructure:"monitor"`
	RateLimit    RateLimit    `mapstructure:"rateLimit"`
	HttpPort     int          `mapstructure:"httpPort"`
	MetricPort   int          `mapstructure:"metricPort"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

// GameConf 会话默认规则
type GameConf struct {
	PlayerCount  int    `mapstructure:"playerCount"`
	Interactive  bool   `mapstructure:"interactive"`
	OrphanPolicy string `mapstructure:"orphanPolicy"` // standard | reachable
}

// CacheConf 分花色拆解结果的本地缓存
type CacheConf struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxCost     int64         `mapstructure:"maxCost"`
	NumCounters int64         `mapstructure:"numCounters"`
	TTL         time.Duration `mapstructure:"ttl"`
}

// StoreConf 会话记录存储，Backend 为空表示不保存
type StoreConf struct {
	Backend   string        `mapstructure:"backend"` // "" | mongo | redis
	KeyPrefix string        `mapstructure:"keyPrefix"`
	TTL       time.Duration `mapstructure:"ttl"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type DatabaseConf struct {
	MongoConf MongoConf `mapstructure:"mongo"`
	RedisConf RedisConf `mapstructure:"redis"`
}

type MongoConf struct {
	Url         string `mapstructure:"url"`
	Db          string `mapstructure:"db"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
}

type RedisConf struct {
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"poolSize"`
	MinIdleConns int    `mapstructure:"minIdleConns"`
}

// NatsConfig URL 为空时不连接
type NatsConfig struct {
	URL            string `json:"url" mapstructure:"url"`
	Subject        string `json:"subject" mapstructure:"subject"`               // 快照发布主题前缀
	CommandSubject string `json:"commandSubject" mapstructure:"commandSubject"` // 命令请求主题
}

type MonitorConf struct {
	Interval time.Duration `mapstructure:"interval"`
	IdleTTL  time.Duration `mapstructure:"idleTTL"`
}

// RateLimit HTTP 全局限流，RPS 为 0 时不限流
type RateLimit struct {
	RPS   int `mapstructure:"rps"`
	Burst int `mapstructure:"burst"`
}

// Default 不读配置文件时使用的默认值
func Default() *Config {
	return &Config{
		AppName: "hairi",
		Log:     LogConf{Level: "info"},
		Game: GameConf{
			PlayerCount:  4,
			OrphanPolicy: "standard",
		},
		Cache: CacheConf{
			Enabled:     true,
			MaxCost:     1 << 16,
			NumCounters: 1 << 18,
		},
		Store: StoreConf{
			KeyPrefix: "hairi:record:",
			TTL:       7 * 24 * time.Hour,
			Timeout:   5 * time.Second,
		},
		DatabaseConf: DatabaseConf{
			MongoConf: MongoConf{Db: "hairi", MaxPoolSize: 10},
			RedisConf: RedisConf{PoolSize: 10},
		},
		Nats: NatsConfig{
			Subject:        "hairi.snapshot",
			CommandSubject: "hairi.command",
		},
		Monitor: MonitorConf{
			Interval: 10 * time.Second,
			IdleTTL:  30 * time.Minute,
		},
		HttpPort: 8080,
	}
}
