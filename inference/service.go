// Package inference 实现打标签接口：文本 -> 特征向量 -> 多标签预测 -> 标签集合。
package inference

import (
	"context"
	"log/slog"

	"github.com/rushteam/tagkit/artifact"
	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/feature"
	"github.com/rushteam/tagkit/label"
	"github.com/rushteam/tagkit/model"
)

// Request 是打标签接口的请求体，Content 为 nil 表示字段缺失。
type Request struct {
	Content *string `json:"content"`
}

// Response 是打标签接口的返回体，Tags 不会为 nil。
type Response struct {
	Tags []string `json:"tags"`
}

// Service 持有只读的模型组件，Predict 可被任意多个请求并发调用。
type Service struct {
	extractor  feature.Extractor
	classifier model.Classifier
	codec      label.Codec
	logger     *slog.Logger
}

// NewService 基于已加载的模型文件创建推理服务，logger 为 nil 时使用 slog.Default()
func NewService(a *artifact.Artifacts, logger *slog.Logger) *Service {
	return NewServiceFromParts(a.Extractor(), a.Classifier(), a.Codec(), logger)
}

// NewServiceFromParts 直接使用三个组件创建推理服务（测试或自定义组件时使用）
func NewServiceFromParts(extractor feature.Extractor, classifier model.Classifier, codec label.Codec, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor:  extractor,
		classifier: classifier,
		codec:      codec,
		logger:     logger.With(slog.String("module", core.ModuleInference)),
	}
}

// Predict 为一段文本预测标签。
//   - content 缺失或为空串：INVALID_INPUT
//   - 任一阶段失败：PREDICTION，消息沿用底层错误
//   - 没有命中任何标签：返回空列表
func (s *Service) Predict(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Content == nil || *req.Content == "" {
		return nil, core.NewInvalidInputError(core.ModuleInference, "Content is required")
	}
	content := *req.Content

	vec, err := s.extractor.Transform(content)
	if err != nil {
		return nil, predictionError(core.ModuleFeature, err)
	}
	pred, err := s.classifier.Predict(vec)
	if err != nil {
		return nil, predictionError(core.ModuleModel, err)
	}
	tags, err := s.codec.Decode(pred)
	if err != nil {
		return nil, predictionError(core.ModuleLabel, err)
	}

	out := make([]string, len(tags))
	copy(out, tags)

	s.logger.DebugContext(ctx, "predict",
		slog.Int("content_len", len(content)),
		slog.Int("feature_dim", vec.Dim()),
		slog.Bool("zero_vector", vec.IsZero()),
		slog.Any("tags", out))
	return &Response{Tags: out}, nil
}

func predictionError(module string, err error) error {
	if core.IsPrediction(err) {
		return err
	}
	return core.NewPredictionError(module, err)
}
