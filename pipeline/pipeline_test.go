package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tagkit/core"
)

type funcNode struct {
	name string
	fn   func([]*core.Item) ([]*core.Item, error)
}

func (n funcNode) Name() string { return n.name }
func (n funcNode) Kind() Kind   { return KindFilter }
func (n funcNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return n.fn(items)
}

func TestPipeline_Run(t *testing.T) {
	dropFirst := funcNode{"drop", func(in []*core.Item) ([]*core.Item, error) { return in[1:], nil }}
	p := &Pipeline{Nodes: []Node{dropFirst, dropFirst}}

	out, err := p.Run(context.Background(), nil, []*core.Item{core.NewItem("1"), core.NewItem("2"), core.NewItem("3")})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "3", out[0].ID)
}

func TestPipeline_NodeError(t *testing.T) {
	boom := funcNode{"boom", func([]*core.Item) ([]*core.Item, error) { return nil, errors.New("bad") }}
	_, err := (&Pipeline{Nodes: []Node{boom}}).Run(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node boom")
}

func TestPipeline_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	never := funcNode{"never", func([]*core.Item) ([]*core.Item, error) {
		t.Fatal("canceled pipeline should not run nodes")
		return nil, nil
	}}
	_, err := (&Pipeline{Nodes: []Node{never}}).Run(ctx, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNodeFactory_Unknown(t *testing.T) {
	cfg := &Config{Nodes: []NodeConfig{{Type: "nope"}}}
	_, err := cfg.BuildPipeline(NewNodeFactory())
	assert.Error(t, err)
}
