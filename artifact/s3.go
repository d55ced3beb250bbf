package artifact

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config S3 兼容对象存储配置（AWS S3、MinIO、阿里云 OSS、腾讯云 COS 等）
type S3Config struct {
	// Endpoint 自定义端点，如 "http://127.0.0.1:9000"；为空时使用 AWS 默认端点
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	// PathStyle MinIO 等自建服务通常需要 path-style 访问
	PathStyle bool `yaml:"path_style"`
}

// S3Source 从 S3 兼容对象存储读取模型文件：key = Prefix/name。
type S3Source struct {
	bucket     string
	prefix     string
	downloader *manager.Downloader
}

// NewS3Client 按配置创建 S3 客户端；未配置密钥时使用匿名访问。
func NewS3Client(cfg S3Config) *s3.Client {
	return s3.NewFromConfig(aws.Config{Region: cfg.Region}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.AccessKey != "" {
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		} else {
			o.Credentials = aws.AnonymousCredentials{}
		}
		o.UsePathStyle = cfg.PathStyle
	})
}

// NewS3Source 创建 S3 来源
func NewS3Source(cfg S3Config) *S3Source {
	return NewS3SourceWithClient(NewS3Client(cfg), cfg.Bucket, cfg.Prefix)
}

// NewS3SourceWithClient 使用已有客户端创建来源
func NewS3SourceWithClient(client manager.DownloadAPIClient, bucket, prefix string) *S3Source {
	return &S3Source{
		bucket:     bucket,
		prefix:     prefix,
		downloader: manager.NewDownloader(client),
	}
}

func (s *S3Source) Name() string { return "s3://" + path.Join(s.bucket, s.prefix) }

func (s *S3Source) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3Source) Fetch(ctx context.Context, name string) ([]byte, error) {
	key := s.key(name)
	buf := manager.NewWriteAtBuffer(nil)
	_, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("download s3://%s/%s: %w", s.bucket, key, err)
	}
	return buf.Bytes(), nil
}
