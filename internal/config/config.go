package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config heartguard（HTTP API）配置
// 优先级：环境变量 > CONFIG_FILE（YAML）> 默认值
type Config struct {
	HTTP struct {
		Addr         string `yaml:"addr"`
		PprofEnabled bool   `yaml:"pprof_enabled"`
		MaxBodyBytes int64  `yaml:"max_body_bytes"`
	} `yaml:"http"`
	Log struct {
		Level  string `yaml:"level"`  // debug/info/warn/error
		Format string `yaml:"format"` // json/console
	} `yaml:"log"`
	Session    SessionConfig    `yaml:"session"`
	Redis      RedisConfig      `yaml:"redis"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Assess     struct {
		Delay time.Duration `yaml:"delay"` // "分析中"展示延迟，默认 0
	} `yaml:"assess"`
	Publish PublishConfig `yaml:"publish"`
}

// SessionConfig 会话存储配置
type SessionConfig struct {
	Store         string        `yaml:"store"` // memory / redis
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"` // 内存会话过期清理间隔
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ClassifierConfig 模型配置
type ClassifierConfig struct {
	Kind    string        `yaml:"kind"`    // forest（占位随机森林）/ remote（外部推理服务）
	Seed    int64         `yaml:"seed"`    // 占位模型随机种子
	Samples int           `yaml:"samples"` // 占位模型训练样本数
	Trees   int           `yaml:"trees"`
	URL     string        `yaml:"url"`     // remote 推理服务地址
	Timeout time.Duration `yaml:"timeout"`
}

// PublishConfig 评估事件下游发布配置
type PublishConfig struct {
	Stream struct {
		Enabled bool   `yaml:"enabled"`
		Name    string `yaml:"name"`
		MaxLen  int64  `yaml:"max_len"`
	} `yaml:"stream"`
	MQTT MQTTConfig `yaml:"mqtt"`
}

// MQTTConfig MQTT 配置（默认禁用）
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
	QoS      int    `yaml:"qos"`
}

func defaults() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = ":8080"
	cfg.HTTP.MaxBodyBytes = 1 << 20
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"

	cfg.Session.Store = "memory"
	cfg.Session.TTL = 2 * time.Hour
	cfg.Session.SweepInterval = time.Minute

	cfg.Redis.Addr = "localhost:6379"

	cfg.Classifier.Kind = "forest"
	cfg.Classifier.Seed = 42
	cfg.Classifier.Samples = 100
	cfg.Classifier.Trees = 100
	cfg.Classifier.URL = "http://localhost:8000"
	cfg.Classifier.Timeout = 10 * time.Second

	cfg.Publish.Stream.Name = "heartguard:assessments"
	cfg.Publish.Stream.MaxLen = 10000
	cfg.Publish.MQTT.Broker = "tcp://localhost:1883"
	cfg.Publish.MQTT.ClientID = "heartguard"
	cfg.Publish.MQTT.Topic = "heartguard/assessments"
	return cfg
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.PprofEnabled = parseBool(os.Getenv("PPROF_ENABLED"), cfg.HTTP.PprofEnabled)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.Session.Store = getEnv("SESSION_STORE", cfg.Session.Store)
	cfg.Session.TTL = parseDuration(os.Getenv("SESSION_TTL"), cfg.Session.TTL)
	cfg.Session.SweepInterval = parseDuration(os.Getenv("SESSION_SWEEP_INTERVAL"), cfg.Session.SweepInterval)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = parseInt(os.Getenv("REDIS_DB"), cfg.Redis.DB)

	cfg.Classifier.Kind = getEnv("CLASSIFIER_KIND", cfg.Classifier.Kind)
	cfg.Classifier.Seed = int64(parseInt(os.Getenv("CLASSIFIER_SEED"), int(cfg.Classifier.Seed)))
	cfg.Classifier.Samples = parseInt(os.Getenv("CLASSIFIER_SAMPLES"), cfg.Classifier.Samples)
	cfg.Classifier.Trees = parseInt(os.Getenv("CLASSIFIER_TREES"), cfg.Classifier.Trees)
	cfg.Classifier.URL = getEnv("CLASSIFIER_URL", cfg.Classifier.URL)
	cfg.Classifier.Timeout = parseDuration(os.Getenv("CLASSIFIER_TIMEOUT"), cfg.Classifier.Timeout)

	cfg.Assess.Delay = parseDuration(os.Getenv("ASSESS_DELAY"), cfg.Assess.Delay)

	cfg.Publish.Stream.Enabled = parseBool(os.Getenv("PUBLISH_STREAM_ENABLED"), cfg.Publish.Stream.Enabled)
	cfg.Publish.Stream.Name = getEnv("PUBLISH_STREAM", cfg.Publish.Stream.Name)
	cfg.Publish.Stream.MaxLen = int64(parseInt(os.Getenv("PUBLISH_STREAM_MAXLEN"), int(cfg.Publish.Stream.MaxLen)))
	cfg.Publish.MQTT.Enabled = parseBool(os.Getenv("MQTT_ENABLED"), cfg.Publish.MQTT.Enabled)
	cfg.Publish.MQTT.Broker = getEnv("MQTT_BROKER", cfg.Publish.MQTT.Broker)
	cfg.Publish.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", cfg.Publish.MQTT.ClientID)
	cfg.Publish.MQTT.Username = getEnv("MQTT_USERNAME", cfg.Publish.MQTT.Username)
	cfg.Publish.MQTT.Password = getEnv("MQTT_PASSWORD", cfg.Publish.MQTT.Password)
	cfg.Publish.MQTT.Topic = getEnv("MQTT_TOPIC", cfg.Publish.MQTT.Topic)
	cfg.Publish.MQTT.QoS = parseInt(os.Getenv("MQTT_QOS"), cfg.Publish.MQTT.QoS)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NeedsRedis Redis 是否被任一组件使用
func (c *Config) NeedsRedis() bool {
	return c.Session.Store == "redis" || c.Publish.Stream.Enabled
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown SESSION_STORE %q (want memory or redis)", c.Session.Store)
	}
	if c.Publish.MQTT.QoS < 0 || c.Publish.MQTT.QoS > 2 {
		return fmt.Errorf("MQTT_QOS must be 0, 1 or 2, got %d", c.Publish.MQTT.QoS)
	}
	switch c.Classifier.Kind {
	case "forest":
		if c.Classifier.Samples <= 0 {
			return fmt.Errorf("CLASSIFIER_SAMPLES must be positive, got %d", c.Classifier.Samples)
		}
	case "remote":
		if c.Classifier.URL == "" {
			return fmt.Errorf("CLASSIFIER_URL is required for remote classifier")
		}
	default:
		return fmt.Errorf("unknown CLASSIFIER_KIND %q (want forest or remote)", c.Classifier.Kind)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseBool(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
