package dsl

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/pkg/utils"
)

func TestProgram_Eval(t *testing.T) {
	item := core.NewItem("42")
	item.Score = 0.8
	item.Meta["lang"] = "en"
	item.PutLabel("rank_model", utils.Label{Value: "random", Source: "rank"})

	rctx := &core.RecommendContext{
		UserID: "u1",
		Params: map[string]any{"exclude": []any{"7", "9"}},
	}

	tests := []struct {
		expr string
		want bool
	}{
		{`item.id == "42"`, true},
		{`item.score > 0.7`, true},
		{`item.score > 0.9`, false},
		{`label.rank_model == "random"`, true},
		{`"category" in label`, false},
		{`item.meta.lang == "en" && rctx.user_id == "u1"`, true},
		{`item.id in rctx.params.exclude`, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := Compile(tt.expr)
			require.NoError(t, err)
			got, err := p.Eval(item, rctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.expr, p.String())
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile(`item.id ==`)
	assert.Error(t, err, "语法错误")

	_, err = Compile(`1 + 2`)
	assert.Error(t, err, "非 bool 表达式")
}

func TestProgram_EvalMissingKey(t *testing.T) {
	p, err := Compile(`label.category == "A"`)
	require.NoError(t, err)
	_, err = p.Eval(core.NewItem("1"), &core.RecommendContext{})
	assert.ErrorIs(t, err, ErrMissingKey)

	p, err = Compile(`item.meta.lang == "en"`)
	require.NoError(t, err)
	_, err = p.Eval(core.NewItem("1"), nil)
	assert.ErrorIs(t, err, ErrMissingKey)

	p, err = Compile(`has(item.meta.lang) && item.meta.lang == "en"`)
	require.NoError(t, err)
	ok, err := p.Eval(core.NewItem("1"), nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProgram_Concurrent(t *testing.T) {
	p, err := Compile(`item.id != "skip"`)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := p.Eval(core.NewItem("x"), nil)
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}
