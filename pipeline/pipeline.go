// Package pipeline 把候选排序拆成可组合的 Node 链：filter -> rank -> rerank。
package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/tagkit/core"
)

// Pipeline 顺序执行 Nodes，上一个 Node 的输出是下一个的输入。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

// Describe 返回 Node 名称列表，按执行顺序排列
func (p *Pipeline) Describe() []string {
	names := make([]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		names = append(names, string(n.Kind())+":"+n.Name())
	}
	return names
}
