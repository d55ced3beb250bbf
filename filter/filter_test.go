package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tagkit/core"
)

func items(ids ...string) []*core.Item {
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewItem(id))
	}
	return out
}

func ids(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFilterNode_Dedup(t *testing.T) {
	node := &FilterNode{Filters: []Filter{NewDedupFilter()}}
	ctx := context.Background()

	out, err := node.Process(ctx, &core.RecommendContext{}, items("1", "2", "1", "3", "2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(out))

	// 已见集合不跨请求
	out, err = node.Process(ctx, &core.RecommendContext{}, items("1", "1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(out))
}

func TestFilterNode_FilteredLabel(t *testing.T) {
	in := items("a", "b")
	node := &FilterNode{Filters: []Filter{NewBlacklistFilter([]string{"b"})}}

	out, err := node.Process(context.Background(), nil, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(out))
	assert.Equal(t, "filter.blacklist", in[1].Labels["filtered"].Source)
}

func TestBlacklistFilter_RequestExclude(t *testing.T) {
	f := NewBlacklistFilter(nil)
	tests := []struct {
		name    string
		exclude any
		id      string
		want    bool
	}{
		{"string slice", []string{"x"}, "x", true},
		{"string slice miss", []string{"x"}, "y", false},
		{"decoded json list", []any{"x", float64(7)}, "7", true},
		{"quoted item id", []any{"abc"}, `"abc"`, true},
		{"no params", nil, "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := &core.RecommendContext{Params: map[string]any{"exclude": tt.exclude}}
			drop, err := f.ShouldFilter(context.Background(), rctx, core.NewItem(tt.id))
			require.NoError(t, err)
			assert.Equal(t, tt.want, drop)
		})
	}
}

func TestBlacklistFilter_StaticIDs(t *testing.T) {
	f := NewBlacklistFilter([]string{"7", "abc"})
	for id, want := range map[string]bool{"7": true, `"7"`: true, `"abc"`: true, "8": false} {
		drop, err := f.ShouldFilter(context.Background(), nil, core.NewItem(id))
		require.NoError(t, err)
		assert.Equal(t, want, drop, id)
	}
}

func TestExprFilter(t *testing.T) {
	f, err := NewExprFilter(`item.id != "2"`)
	require.NoError(t, err)

	node := &FilterNode{Filters: []Filter{f}}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, items("1", "2", "3"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(out))

	_, err = NewExprFilter(`item.id ==`)
	assert.Error(t, err)
}

func TestExprFilter_MissingKeyDrops(t *testing.T) {
	f, err := NewExprFilter(`item.meta.lang == "en"`)
	require.NoError(t, err)

	in := items("1", "2", "3")
	in[0].Meta["lang"] = "en"
	in[2].Meta["lang"] = "de"

	out, err := (&FilterNode{Filters: []Filter{f}}).Process(context.Background(), &core.RecommendContext{}, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(out))
	assert.Equal(t, "filter.expr", in[1].Labels["filtered"].Source)
}

type failingFilter struct{}

func (failingFilter) Name() string { return "filter.failing" }

func (failingFilter) ShouldFilter(context.Context, *core.RecommendContext, *core.Item) (bool, error) {
	return false, errors.New("boom")
}

func TestFilterNode_ErrorPolicy(t *testing.T) {
	ctx := context.Background()

	_, err := (&FilterNode{Filters: []Filter{failingFilter{}}}).Process(ctx, nil, items("1"))
	assert.Error(t, err)

	out, err := (&FilterNode{Filters: []Filter{failingFilter{}}, FailOpen: true}).Process(ctx, nil, items("1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(out))
}
