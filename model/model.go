package model

import "github.com/rushteam/tagkit/core"

// Classifier 是多标签分类模型的最小抽象：输入特征向量，输出 multi-hot 预测向量。
//
// 约束：
//   - 输入长度必须等于 InputDim()，否则返回 PREDICTION 错误
//   - 输出长度恒等于 OutputDim()，可以是全零（没有命中任何标签）
//   - 无随机性、不修改内部状态，可并发调用
type Classifier interface {
	Name() string
	Predict(vec core.FeatureVector) (core.PredictionVector, error)
	InputDim() int
	OutputDim() int
}

// RankModel 是排序阶段的最小抽象：输入特征，输出一个可比较的分数。
// 具体实现可以是本地模型，也可以是随机打分等占位策略。
type RankModel interface {
	Name() string
	Predict(features map[string]float64) (float64, error)
}
