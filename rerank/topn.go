// Package rerank 在排序结果上做截断与多样性调整。
package rerank

import (
	"context"

	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/pipeline"
)

// DefaultTopN 是推荐接口默认返回的帖子数
const DefaultTopN = 5

// TopNNode 在排序后截取前 N 个候选。
// N <= 0 时不截断；候选不足 N 个时原样返回。
type TopNNode struct {
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
