// Package rank 为候选打分并按分数降序排列。
package rank

import (
	"context"
	"sort"

	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/model"
	"github.com/rushteam/tagkit/pipeline"
	"github.com/rushteam/tagkit/pkg/utils"
)

// ModelNode 使用 RankModel 为每个候选打分：
//   - 写入 labels：rank_model
//   - 更新 item.Score 并按分数降序稳定排序
type ModelNode struct {
	Model model.RankModel
}

func (n *ModelNode) Name() string        { return "rank.model" }
func (n *ModelNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ModelNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Model == nil || len(items) == 0 {
		return items, nil
	}

	for _, it := range items {
		if it == nil {
			continue
		}
		score, err := n.Model.Predict(it.Features)
		if err != nil {
			return nil, err
		}
		it.Score = score
		it.PutLabel("rank_model", utils.Label{Value: n.Model.Name(), Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}
