package builders

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tagkit/config"
	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/pipeline"
)

const pipelineYAML = `
name: recommend
nodes:
  - type: filter
    config:
      filters:
        - type: dedup
        - type: blacklist
          ids: ["3"]
  - type: filter.expr
    config:
      expr: 'item.id != "4"'
  - type: rank.model
    config:
      model: random
      seed: 7
  - type: rerank.topn
    config:
      n: 2
`

func TestSupportedTypes(t *testing.T) {
	assert.Equal(t, []string{
		"filter", "filter.blacklist", "filter.dedup", "filter.expr",
		"rank.model", "rerank.diversity", "rerank.topn",
	}, config.SupportedTypes())
}

func TestBuildPipelineFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pipelineYAML), 0o644))

	cfg, err := pipeline.LoadFromYAML(path)
	require.NoError(t, err)
	require.NoError(t, config.ValidatePipelineConfig(cfg))

	p, err := cfg.BuildPipeline(config.DefaultFactory())
	require.NoError(t, err)
	assert.Equal(t, []string{"filter:filter.node", "filter:filter.node", "rank:rank.model", "rerank:rerank.topn"}, p.Describe())

	in := []*core.Item{core.NewItem("1"), core.NewItem("1"), core.NewItem("2"), core.NewItem("3"), core.NewItem("4")}
	out, err := p.Run(context.Background(), &core.RecommendContext{UserID: "u"}, in)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.ElementsMatch(t, []string{"1", "2"}, []string{out[0].ID, out[1].ID})
}

func TestValidatePipelineConfig_Unknown(t *testing.T) {
	cfg := &pipeline.Config{Nodes: []pipeline.NodeConfig{{Type: "recall.hot"}}}
	err := config.ValidatePipelineConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recall.hot")
}

func TestBuilders_InvalidConfig(t *testing.T) {
	f := config.DefaultFactory()
	tests := []struct {
		typ string
		cfg map[string]any
	}{
		{"filter", map[string]any{}},
		{"filter", map[string]any{"filters": []any{map[string]any{"type": "nope"}}}},
		{"filter.expr", map[string]any{}},
		{"filter.expr", map[string]any{"expr": "item.id =="}},
		{"rank.model", map[string]any{"model": "lr"}},
		{"rank.model", map[string]any{"seed": -1}},
		{"rerank.topn", map[string]any{"n": -1}},
	}
	for _, tt := range tests {
		_, err := f.Build(tt.typ, tt.cfg)
		assert.Error(t, err, "%s %v", tt.typ, tt.cfg)
	}
}

func TestBuildTopNNode_Default(t *testing.T) {
	node, err := config.DefaultFactory().Build("rerank.topn", nil)
	require.NoError(t, err)

	in := make([]*core.Item, 8)
	for i := range in {
		in[i] = core.NewItem(string(rune('a' + i)))
	}
	out, err := node.Process(context.Background(), nil, in)
	require.NoError(t, err)
	assert.Len(t, out, 5)
}
