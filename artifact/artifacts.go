// Package artifact 负责在启动期一次性加载三个预训练模型文件
// （向量化器、分类器、标签编码器），校验它们来自同一次训练，
// 并在进程生命周期内以只读方式提供给推理服务。
package artifact

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/feature"
	"github.com/rushteam/tagkit/label"
	"github.com/rushteam/tagkit/model"
)

// Artifacts 是加载完成的三个模型组件，加载后不可变，可被任意多个请求并发读取。
type Artifacts struct {
	extractor  feature.Extractor
	classifier model.Classifier
	codec      label.Codec
	source     string
}

// Info 描述已加载模型文件的形状
type Info struct {
	Source     string   `json:"source"`
	Extractor  string   `json:"extractor"`
	Classifier string   `json:"classifier"`
	FeatureDim int      `json:"feature_dim"`
	LabelCount int      `json:"label_count"`
	Labels     []string `json:"labels"`
}

// New 组装三个组件并校验兼容性：
//   - 向量化器输出维度 == 分类器输入维度
//   - 分类器输出维度 == 标签编码器类别数
func New(extractor feature.Extractor, classifier model.Classifier, codec label.Codec) (*Artifacts, error) {
	if extractor == nil || classifier == nil || codec == nil {
		return nil, core.NewArtifactLoadError("incomplete artifacts", fmt.Errorf("extractor, classifier and codec are all required"))
	}
	if extractor.Dim() != classifier.InputDim() {
		return nil, core.NewArtifactLoadError("incompatible artifacts",
			fmt.Errorf("vectorizer produces %d features, classifier expects %d", extractor.Dim(), classifier.InputDim()))
	}
	if classifier.OutputDim() != codec.LabelCount() {
		return nil, core.NewArtifactLoadError("incompatible artifacts",
			fmt.Errorf("classifier predicts %d labels, label codec has %d classes", classifier.OutputDim(), codec.LabelCount()))
	}
	return &Artifacts{
		extractor:  extractor,
		classifier: classifier,
		codec:      codec,
	}, nil
}

// Load 从 src 读取三个模型文件，反序列化并校验兼容性。
// 任何失败都返回 ARTIFACT_LOAD 错误，调用方应终止启动。
func Load(ctx context.Context, src Source, names Names) (*Artifacts, error) {
	names = names.WithDefaults()
	blobs, err := fetchAll(ctx, src, names.List())
	if err != nil {
		return nil, core.NewArtifactLoadError("load artifacts", err)
	}
	a, err := decode(blobs, names)
	if err != nil {
		return nil, err
	}
	a.source = src.Name()
	return a, nil
}

// fetchAll 读取全部模型文件：BatchSource 一次取回，其余来源并发逐个读取。
func fetchAll(ctx context.Context, src Source, names []string) (map[string][]byte, error) {
	if bs, ok := src.(BatchSource); ok {
		blobs, err := bs.FetchAll(ctx, names)
		if err != nil {
			return nil, fmt.Errorf("fetch from %s: %w", src.Name(), err)
		}
		return blobs, nil
	}

	data := make([][]byte, len(names))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, name := range names {
		eg.Go(func() error {
			b, err := src.Fetch(egCtx, name)
			if err != nil {
				return fmt.Errorf("fetch %s from %s: %w", name, src.Name(), err)
			}
			data[i] = b
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	blobs := make(map[string][]byte, len(names))
	for i, name := range names {
		blobs[name] = data[i]
	}
	return blobs, nil
}

func decode(blobs map[string][]byte, names Names) (*Artifacts, error) {
	extractor, err := feature.DecodeTfidfVectorizer(blobs[names.Vectorizer])
	if err != nil {
		return nil, core.NewArtifactLoadError("decode "+names.Vectorizer, err)
	}
	classifier, err := model.DecodeOneVsRestLinear(blobs[names.Classifier])
	if err != nil {
		return nil, core.NewArtifactLoadError("decode "+names.Classifier, err)
	}
	codec, err := label.DecodeMultiLabelBinarizer(blobs[names.LabelCodec])
	if err != nil {
		return nil, core.NewArtifactLoadError("decode "+names.LabelCodec, err)
	}
	return New(extractor, classifier, codec)
}

func (a *Artifacts) Extractor() feature.Extractor { return a.extractor }

func (a *Artifacts) Classifier() model.Classifier { return a.classifier }

func (a *Artifacts) Codec() label.Codec { return a.codec }

// Info 返回模型文件形状信息（用于健康检查与 check 命令）
func (a *Artifacts) Info() Info {
	return Info{
		Source:     a.source,
		Extractor:  a.extractor.Name(),
		Classifier: a.classifier.Name(),
		FeatureDim: a.extractor.Dim(),
		LabelCount: a.codec.LabelCount(),
		Labels:     a.codec.Classes(),
	}
}

// Publish 把 src 中的三个模型文件原样写入 dst（key = prefix + name），
// 写入前先完整校验一遍，避免把不兼容的组合发布出去。
func Publish(ctx context.Context, src Source, dst core.Store, prefix string, names Names) error {
	names = names.WithDefaults()
	blobs, err := fetchAll(ctx, src, names.List())
	if err != nil {
		return core.NewArtifactLoadError("load artifacts", err)
	}
	if _, err := decode(blobs, names); err != nil {
		return err
	}
	for _, name := range names.List() {
		if err := dst.Set(ctx, prefix+name, blobs[name]); err != nil {
			return fmt.Errorf("write %s%s to %s: %w", prefix, name, dst.Name(), err)
		}
	}
	return nil
}
