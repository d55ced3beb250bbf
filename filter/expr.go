package filter

import (
	"context"
	"errors"

	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/pkg/dsl"
)

// ExprFilter 用 CEL 表达式过滤候选：表达式为 true 的候选被保留。
// 候选缺少表达式引用的 key 时视为不满足条件，被过滤掉。
//
// 示例：
//
//	f, _ := filter.NewExprFilter(`item.meta.lang == "en"`)
type ExprFilter struct {
	prg *dsl.Program
}

// NewExprFilter 编译表达式并创建过滤器
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	keep, err := f.prg.Eval(item, rctx)
	if errors.Is(err, dsl.ErrMissingKey) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return !keep, nil
}
