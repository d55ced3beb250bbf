package filter

import (
	"context"

	"github.com/rushteam/tagkit/core"
)

// DedupFilter 按 Item.ID 去重，保留第一次出现的候选。
type DedupFilter struct {
	seen map[string]struct{}
}

func NewDedupFilter() *DedupFilter {
	return &DedupFilter{seen: make(map[string]struct{})}
}

func (f *DedupFilter) Name() string {
	return "filter.dedup"
}

func (f *DedupFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.seen == nil {
		f.seen = make(map[string]struct{})
	}
	if _, ok := f.seen[item.ID]; ok {
		return true, nil
	}
	f.seen[item.ID] = struct{}{}
	return false, nil
}

func (f *DedupFilter) fresh() Filter {
	return NewDedupFilter()
}
