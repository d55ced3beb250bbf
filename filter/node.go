package filter

import (
	"context"

	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/pipeline"
	"github.com/rushteam/tagkit/pkg/utils"
)

// FilterNode 组合多个过滤器，任一过滤器返回 true 该候选即被移除。
// 单个 Node 内的过滤器按顺序执行，过滤器之间共享状态（如 DedupFilter 的已见集合）
// 只在一次 Process 调用内有效。
type FilterNode struct {
	Filters []Filter

	// FailOpen 为 true 时过滤器报错按“保留”处理，否则中断 Pipeline
	FailOpen bool
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	filters := make([]Filter, len(n.Filters))
	for i, f := range n.Filters {
		if r, ok := f.(resetter); ok {
			filters[i] = r.fresh()
			continue
		}
		filters[i] = f
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		reason := ""
		for _, f := range filters {
			drop, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				if n.FailOpen {
					continue
				}
				return nil, err
			}
			if drop {
				reason = f.Name()
				break
			}
		}

		if reason != "" {
			item.PutLabel("filtered", utils.Label{Value: "true", Source: reason})
			continue
		}
		item.PutLabel("filter", utils.Label{Value: "pass", Source: n.Name()})
		out = append(out, item)
	}
	return out, nil
}

// resetter 由带请求级状态的过滤器实现，每次 Process 使用一份新的实例。
type resetter interface {
	fresh() Filter
}
