package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rushteam/tagkit/core"
)

// Source 是模型文件来源的抽象，按名称读取一个完整的二进制 blob。
// 支持本地目录、Redis、S3 兼容对象存储、HTTP 等。
type Source interface {
	// Name 返回来源名称（用于日志/错误信息）
	Name() string

	// Fetch 读取指定名称的模型文件内容
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// BatchSource 由能一次读取多个模型文件的来源实现（如 Redis MGET）。
// 任一名称缺失时返回错误，错误信息列出所有缺失的名称。
type BatchSource interface {
	Source
	FetchAll(ctx context.Context, names []string) (map[string][]byte, error)
}

// Names 是三个模型文件的名称（文件名、key 或对象路径，取决于 Source）。
type Names struct {
	Vectorizer string `yaml:"vectorizer"`
	Classifier string `yaml:"classifier"`
	LabelCodec string `yaml:"label_codec"`
}

// DefaultNames 返回默认的模型文件名称
func DefaultNames() Names {
	return Names{
		Vectorizer: "vectorizer.json",
		Classifier: "classifier.json",
		LabelCodec: "label_binarizer.json",
	}
}

// WithDefaults 用默认值补齐未设置的名称
func (n Names) WithDefaults() Names {
	d := DefaultNames()
	if n.Vectorizer == "" {
		n.Vectorizer = d.Vectorizer
	}
	if n.Classifier == "" {
		n.Classifier = d.Classifier
	}
	if n.LabelCodec == "" {
		n.LabelCodec = d.LabelCodec
	}
	return n
}

// List 按 向量化器、分类器、标签编码器 的顺序返回名称
func (n Names) List() []string {
	return []string{n.Vectorizer, n.Classifier, n.LabelCodec}
}

// FileSource 从本地目录读取模型文件。
type FileSource struct {
	Dir string
}

// NewFileSource 创建本地目录来源
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Name() string { return "file:" + s.Dir }

func (s *FileSource) Fetch(_ context.Context, name string) ([]byte, error) {
	path := name
	if !filepath.IsAbs(name) {
		path = filepath.Join(s.Dir, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// StoreSource 从 core.Store（Redis、内存）读取模型文件，key = Prefix + name。
type StoreSource struct {
	Store  core.Store
	Prefix string
}

// NewStoreSource 创建基于 KV 存储的来源
func NewStoreSource(store core.Store, prefix string) *StoreSource {
	return &StoreSource{Store: store, Prefix: prefix}
}

func (s *StoreSource) Name() string { return s.Store.Name() + ":" + s.Prefix }

func (s *StoreSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	key := s.Prefix + name
	data, err := s.Store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return data, nil
}

// FetchAll 用一次 BatchGet 读取全部模型文件
func (s *StoreSource) FetchAll(ctx context.Context, names []string) (map[string][]byte, error) {
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = s.Prefix + name
	}
	got, err := s.Store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("batch get %s: %w", strings.Join(keys, ", "), err)
	}

	out := make(map[string][]byte, len(names))
	var missing []string
	for i, name := range names {
		data, ok := got[keys[i]]
		if !ok {
			missing = append(missing, keys[i])
			continue
		}
		out[name] = data
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("get %s: %w", strings.Join(missing, ", "), core.ErrStoreNotFound)
	}
	return out, nil
}

var _ BatchSource = (*StoreSource)(nil)
