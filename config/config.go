// Package config 负责服务配置（YAML 文件 + 环境变量）以及排序 Node 注册表。
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/tagkit/artifact"
	"github.com/rushteam/tagkit/pipeline"
)

// 模型文件来源类型
const (
	SourceFile  = "file"
	SourceRedis = "redis"
	SourceS3    = "s3"
	SourceHTTP  = "http"
)

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	Mode            string        `yaml:"mode"` // gin 模式：debug / release / test
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text / json
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type HTTPConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ArtifactsConfig 描述三个模型文件从哪里读取
type ArtifactsConfig struct {
	Source string            `yaml:"source"` // file / redis / s3 / http
	Names  artifact.Names    `yaml:"names"`
	Dir    string            `yaml:"dir"`
	Redis  RedisConfig       `yaml:"redis"`
	S3     artifact.S3Config `yaml:"s3"`
	HTTP   HTTPConfig        `yaml:"http"`
}

// RankingConfig 是推荐接口的排序配置。
// Pipeline 非空时直接使用其中的 Node 列表，忽略 TopN/Filter/Seed。
type RankingConfig struct {
	TopN     int              `yaml:"top_n"`
	Filter   string           `yaml:"filter"` // CEL 表达式，为 true 的候选被保留
	Seed     uint64           `yaml:"seed"`
	Pipeline *pipeline.Config `yaml:"pipeline"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Ranking   RankingConfig   `yaml:"ranking"`
}

// DefaultConfig 返回默认配置：监听 :5000，从 ./artifacts 读取模型文件，推荐返回 5 条。
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":5000",
			Mode:            "release",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "text"},
		Artifacts: ArtifactsConfig{
			Source: SourceFile,
			Names:  artifact.DefaultNames(),
			Dir:    "artifacts",
			Redis:  RedisConfig{Addr: "localhost:6379", Prefix: "tagkit:artifacts:"},
			S3:     artifact.S3Config{Region: "us-east-1"},
			HTTP:   HTTPConfig{Timeout: 10 * time.Second},
		},
		Ranking: RankingConfig{TopN: 5},
	}
}

// Load 按 默认值 -> YAML 文件 -> .env / 环境变量 的顺序合并配置。
// path 为空时跳过文件；指定了但不存在则报错。
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	_ = godotenv.Load()
	cfg.applyEnv()
	cfg.Artifacts.Names = cfg.Artifacts.Names.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("TAGKIT_ADDR", c.Server.Addr)
	c.Server.Mode = getEnv("TAGKIT_MODE", c.Server.Mode)
	c.Log.Level = getEnv("TAGKIT_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("TAGKIT_LOG_FORMAT", c.Log.Format)

	a := &c.Artifacts
	a.Source = getEnv("TAGKIT_ARTIFACTS_SOURCE", a.Source)
	a.Dir = getEnv("TAGKIT_ARTIFACTS_DIR", a.Dir)
	a.Redis.Addr = getEnv("TAGKIT_REDIS_ADDR", a.Redis.Addr)
	a.Redis.Password = getEnv("TAGKIT_REDIS_PASSWORD", a.Redis.Password)
	a.Redis.DB = getEnvInt("TAGKIT_REDIS_DB", a.Redis.DB)
	a.Redis.Prefix = getEnv("TAGKIT_REDIS_PREFIX", a.Redis.Prefix)
	a.S3.Endpoint = getEnv("TAGKIT_S3_ENDPOINT", a.S3.Endpoint)
	a.S3.Region = getEnv("TAGKIT_S3_REGION", a.S3.Region)
	a.S3.Bucket = getEnv("TAGKIT_S3_BUCKET", a.S3.Bucket)
	a.S3.Prefix = getEnv("TAGKIT_S3_PREFIX", a.S3.Prefix)
	a.S3.AccessKey = getEnv("TAGKIT_S3_ACCESS_KEY", a.S3.AccessKey)
	a.S3.SecretKey = getEnv("TAGKIT_S3_SECRET_KEY", a.S3.SecretKey)
	a.S3.PathStyle = getEnvBool("TAGKIT_S3_PATH_STYLE", a.S3.PathStyle)
	a.HTTP.BaseURL = getEnv("TAGKIT_HTTP_BASE_URL", a.HTTP.BaseURL)

	c.Ranking.TopN = getEnvInt("TAGKIT_RANKING_TOP_N", c.Ranking.TopN)
	c.Ranking.Filter = getEnv("TAGKIT_RANKING_FILTER", c.Ranking.Filter)
	if v := os.Getenv("TAGKIT_RANKING_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Ranking.Seed = seed
		}
	}
}

// Validate 校验来源类型与对应的必填项
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	a := c.Artifacts
	switch a.Source {
	case SourceFile:
		if a.Dir == "" {
			return fmt.Errorf("artifacts.dir is required for source %q", a.Source)
		}
	case SourceRedis:
		if a.Redis.Addr == "" {
			return fmt.Errorf("artifacts.redis.addr is required for source %q", a.Source)
		}
	case SourceS3:
		if a.S3.Bucket == "" {
			return fmt.Errorf("artifacts.s3.bucket is required for source %q", a.Source)
		}
	case SourceHTTP:
		if a.HTTP.BaseURL == "" {
			return fmt.Errorf("artifacts.http.base_url is required for source %q", a.Source)
		}
	default:
		return fmt.Errorf("unknown artifacts.source %q (supported: file, redis, s3, http)", a.Source)
	}

	if c.Ranking.TopN < 0 {
		return fmt.Errorf("ranking.top_n must be >= 0, got %d", c.Ranking.TopN)
	}
	if c.Ranking.Seed > math.MaxInt64 {
		return fmt.Errorf("ranking.seed must be <= %d, got %d", int64(math.MaxInt64), c.Ranking.Seed)
	}
	if err := ValidatePipelineConfig(c.Ranking.Pipeline); err != nil {
		return fmt.Errorf("ranking.pipeline: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
