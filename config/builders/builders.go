// Package builders 注册内置的排序 Node 构建器。
package builders

import (
	"fmt"

	"github.com/rushteam/tagkit/config"
	"github.com/rushteam/tagkit/filter"
	"github.com/rushteam/tagkit/model"
	"github.com/rushteam/tagkit/pipeline"
	"github.com/rushteam/tagkit/pkg/conv"
	"github.com/rushteam/tagkit/rank"
	"github.com/rushteam/tagkit/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("filter.dedup", BuildDedupNode)
	config.Register("filter.blacklist", BuildBlacklistNode)
	config.Register("filter.expr", BuildExprNode)
	config.Register("rank.model", BuildModelNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
}

// BuildFilterNode 构建组合过滤 Node：filters 为过滤器列表，任一命中即移除。
func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for i, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("filters[%d] is not a map", i)
		}
		f, err := buildFilter(filterMap)
		if err != nil {
			return nil, fmt.Errorf("filters[%d]: %w", i, err)
		}
		filters = append(filters, f)
	}
	return &filter.FilterNode{
		Filters:  filters,
		FailOpen: conv.ConfigGet(cfg, "fail_open", false),
	}, nil
}

func buildFilter(cfg map[string]any) (filter.Filter, error) {
	switch t := conv.ConfigGet(cfg, "type", ""); t {
	case "dedup":
		return filter.NewDedupFilter(), nil
	case "blacklist":
		return filter.NewBlacklistFilter(conv.SliceAnyToString(cfg["ids"])), nil
	case "expr":
		expr := conv.ConfigGet(cfg, "expr", "")
		if expr == "" {
			return nil, fmt.Errorf("expr not found")
		}
		return filter.NewExprFilter(expr)
	default:
		return nil, fmt.Errorf("unknown filter type: %q", t)
	}
}

func BuildDedupNode(cfg map[string]any) (pipeline.Node, error) {
	return &filter.FilterNode{Filters: []filter.Filter{filter.NewDedupFilter()}}, nil
}

func BuildBlacklistNode(cfg map[string]any) (pipeline.Node, error) {
	f, err := buildFilter(map[string]any{"type": "blacklist", "ids": cfg["ids"]})
	if err != nil {
		return nil, err
	}
	return &filter.FilterNode{Filters: []filter.Filter{f}}, nil
}

func BuildExprNode(cfg map[string]any) (pipeline.Node, error) {
	f, err := buildFilter(map[string]any{"type": "expr", "expr": cfg["expr"]})
	if err != nil {
		return nil, err
	}
	return &filter.FilterNode{
		Filters:  []filter.Filter{f},
		FailOpen: conv.ConfigGet(cfg, "fail_open", false),
	}, nil
}

// BuildModelNode 构建打分 Node。目前只有 model: random，seed 为 0 时使用随机种子。
func BuildModelNode(cfg map[string]any) (pipeline.Node, error) {
	switch name := conv.ConfigGet(cfg, "model", "random"); name {
	case "random":
		seed := conv.ConfigGetInt64(cfg, "seed", 0)
		if seed < 0 {
			return nil, fmt.Errorf("seed must be >= 0, got %d", seed)
		}
		return &rank.ModelNode{Model: model.NewRandomModel(uint64(seed))}, nil
	default:
		return nil, fmt.Errorf("unknown rank model: %q", name)
	}
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", rerank.DefaultTopN)
	if n < 0 {
		return nil, fmt.Errorf("n must be >= 0, got %d", n)
	}
	return &rerank.TopNNode{N: int(n)}, nil
}

func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{
		Key:    conv.ConfigGet(cfg, "key", "category"),
		PerKey: int(conv.ConfigGetInt64(cfg, "per_key", 1)),
	}, nil
}
