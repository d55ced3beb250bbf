// Package tagkit 是一个文本打标签与帖子推荐服务。
//
// 组成：
//   - 打标签：artifact 加载模型文件，feature 向量化，model 多标签分类，label 解码为标签
//   - 推荐：recommend 把候选帖子交给 pipeline（filter -> rank -> rerank）排序截断
//   - 接入：server 提供 HTTP 接口，cmd/tagkit 提供命令行
package tagkit

import (
	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/pipeline"
)

// 轻量 facade：便于直接 import "tagkit" 使用核心抽象。
type (
	Pipeline         = pipeline.Pipeline
	Node             = pipeline.Node
	Kind             = pipeline.Kind
	FeatureVector    = core.FeatureVector
	PredictionVector = core.PredictionVector
	TagSet           = core.TagSet
	DomainError      = core.DomainError
)

const (
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)
