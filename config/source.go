package config

import (
	"context"
	"fmt"

	"github.com/rushteam/tagkit/artifact"
	"github.com/rushteam/tagkit/store"
)

// OpenSource 按配置创建模型文件来源。返回的 close 用于释放底层连接（Redis），
// 模型加载完成后即可调用。
func (c ArtifactsConfig) OpenSource(ctx context.Context) (src artifact.Source, closeFn func() error, err error) {
	noop := func() error { return nil }
	switch c.Source {
	case SourceFile:
		return artifact.NewFileSource(c.Dir), noop, nil
	case SourceRedis:
		rs, err := c.OpenRedis(ctx)
		if err != nil {
			return nil, nil, err
		}
		return artifact.NewStoreSource(rs, c.Redis.Prefix), rs.Close, nil
	case SourceS3:
		return artifact.NewS3Source(c.S3), noop, nil
	case SourceHTTP:
		return artifact.NewHTTPSource(c.HTTP.BaseURL, c.HTTP.Timeout), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown artifacts source %q", c.Source)
	}
}

// OpenRedis 连接配置中的 Redis（读取来源与 publish 命令共用）
func (c ArtifactsConfig) OpenRedis(ctx context.Context) (*store.RedisStore, error) {
	return store.NewRedisStore(ctx, store.RedisOptions{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	})
}
