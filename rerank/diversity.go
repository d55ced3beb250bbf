package rerank

import (
	"context"

	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/pipeline"
)

// Diversity 按类别打散：每个类别最多保留 PerKey 个候选（默认 1），保持原有顺序。
// 类别取自 label[Key].Value，其次是 meta[Key]（帖子请求体中的同名字段）。
// 没有类别的候选不受限制。
type Diversity struct {
	Key    string // 默认 "category"
	PerKey int
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	key := n.Key
	if key == "" {
		key = "category"
	}
	limit := n.PerKey
	if limit <= 0 {
		limit = 1
	}

	counts := make(map[string]int)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		cate := categoryOf(it, key)
		if cate == "" {
			out = append(out, it)
			continue
		}
		if counts[cate] >= limit {
			continue
		}
		counts[cate]++
		out = append(out, it)
	}
	return out, nil
}

func categoryOf(it *core.Item, key string) string {
	if lbl, ok := it.Labels[key]; ok && lbl.Value != "" {
		return lbl.Value
	}
	if s, ok := it.Meta[key].(string); ok {
		return s
	}
	return ""
}
