// Package recommend 实现推荐接口：对调用方给出的候选帖子打分排序，返回前 N 个 id。
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rushteam/tagkit/config"
	_ "github.com/rushteam/tagkit/config/builders"
	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/pipeline"
	"github.com/rushteam/tagkit/pkg/conv"
	"github.com/rushteam/tagkit/rerank"
)

// Service 把请求转换为 Item 列表并交给排序 Pipeline。
// Pipeline 的 Node 可以有请求级状态之外的共享状态（如随机数源），需自行保证并发安全。
type Service struct {
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

// NewService 创建推荐服务，logger 为 nil 时使用 slog.Default()
func NewService(p *pipeline.Pipeline, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{pipeline: p, logger: logger}
}

// PipelineConfig 由排序配置生成 Pipeline 配置：
// dedup -> [expr] -> rank.model(random) -> rerank.topn。
// cfg.Pipeline 非空时原样使用；TopN <= 0 时取默认值 5。
// Seed 超出 int64 时转换为负数，由 rank.model 拒绝。
func PipelineConfig(cfg config.RankingConfig) *pipeline.Config {
	if cfg.Pipeline != nil && len(cfg.Pipeline.Nodes) > 0 {
		return cfg.Pipeline
	}
	topN := cfg.TopN
	if topN <= 0 {
		topN = rerank.DefaultTopN
	}
	nodes := []pipeline.NodeConfig{{Type: "filter.dedup"}}
	if cfg.Filter != "" {
		nodes = append(nodes, pipeline.NodeConfig{Type: "filter.expr", Config: map[string]any{"expr": cfg.Filter}})
	}
	nodes = append(nodes,
		pipeline.NodeConfig{Type: "rank.model", Config: map[string]any{"model": "random", "seed": int64(cfg.Seed)}},
		pipeline.NodeConfig{Type: "rerank.topn", Config: map[string]any{"n": topN}},
	)
	return &pipeline.Config{Name: "recommend", Nodes: nodes}
}

// NewPipeline 按排序配置构建 Pipeline
func NewPipeline(cfg config.RankingConfig) (*pipeline.Pipeline, error) {
	pc := PipelineConfig(cfg)
	if err := config.ValidatePipelineConfig(pc); err != nil {
		return nil, err
	}
	return pc.BuildPipeline(config.DefaultFactory())
}

// Recommend 返回至多 N 个推荐帖子 id：
//   - user_id 缺失或为假值、posts 缺失或为空、某个帖子没有可用 id 时返回 INVALID_INPUT
//   - 返回的 id 来自请求且不重复，数量为 min(N, 去重后的候选数)
func (s *Service) Recommend(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || !truthy(req.UserID) || len(req.Posts) == 0 {
		return nil, core.NewInvalidInputError(core.ModuleRecommend, "Invalid input")
	}

	params, err := requestParams(req)
	if err != nil {
		return nil, err
	}
	rctx := &core.RecommendContext{
		UserID: userKey(req.UserID),
		Scene:  "recommend",
		Params: params,
	}

	raw := make(map[string]any, len(req.Posts))
	items := make([]*core.Item, 0, len(req.Posts))
	for i, post := range req.Posts {
		rawID, ok := post["id"]
		if !ok || rawID == nil {
			return nil, core.NewInvalidInputError(core.ModuleRecommend, fmt.Sprintf("Invalid input: posts[%d] has no id", i))
		}
		key, err := idKey(rawID)
		if err != nil {
			return nil, core.NewInvalidInputError(core.ModuleRecommend, fmt.Sprintf("Invalid input: posts[%d].id: %v", i, err))
		}
		if _, seen := raw[key]; !seen {
			raw[key] = rawID
		}

		it := core.NewItem(key)
		for k, v := range post {
			if k == "id" {
				continue
			}
			it.Meta[k] = normalize(v)
		}
		it.Features = conv.MapToFloat64(it.Meta)
		items = append(items, it)
	}

	ranked, err := s.pipeline.Run(ctx, rctx, items)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleRecommend, core.ErrorCodeInternalError, "rank posts", err)
	}

	out := make([]any, 0, len(ranked))
	for _, it := range ranked {
		out = append(out, raw[it.ID])
	}
	s.logger.DebugContext(ctx, "recommend",
		slog.String("user_id", rctx.UserID),
		slog.Int("candidates", len(items)),
		slog.Int("returned", len(out)))
	return &Response{RecommendedPosts: out}, nil
}

// requestParams 合并 params 与顶层 exclude，exclude 统一为 id 文本列表（[]string）。
func requestParams(req *Request) (map[string]any, error) {
	params := make(map[string]any, len(req.Params)+1)
	for k, v := range req.Params {
		params[k] = normalize(v)
	}

	var raw []any
	switch v := req.Params["exclude"].(type) {
	case nil:
	case []any:
		raw = append(raw, v...)
	default:
		return nil, core.NewInvalidInputError(core.ModuleRecommend, "Invalid input: params.exclude must be a list")
	}
	raw = append(raw, req.Exclude...)
	if len(raw) == 0 {
		return params, nil
	}

	exclude := make([]string, 0, len(raw))
	for i, id := range raw {
		text, err := idText(id)
		if err != nil {
			return nil, core.NewInvalidInputError(core.ModuleRecommend, fmt.Sprintf("Invalid input: exclude[%d]: %v", i, err))
		}
		exclude = append(exclude, text)
	}
	params["exclude"] = exclude
	return params, nil
}

func userKey(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if key, err := idKey(v); err == nil {
		return key
	}
	return fmt.Sprint(v)
}

// normalize 把 json.Number 转为 int64/float64，使 Meta 可被过滤表达式直接比较。
func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}
