package feature

import "github.com/rushteam/tagkit/core"

// Extractor 是文本特征抽取器的统一接口，把一条文本转换为一个定长特征向量。
//
// 约束：
//   - 纯函数：同一份模型文件下，相同文本总是得到相同向量
//   - 空文本是合法输入，返回全零向量而不是错误
//   - 只有模型文件内部损坏时才返回 TRANSFORM 错误
//   - 加载后只读，可被任意多个请求并发调用
//
// 实现：
//   - TfidfVectorizer：词袋 + TF-IDF 加权
type Extractor interface {
	// Transform 将文本转换为特征向量
	Transform(text string) (core.FeatureVector, error)

	// Dim 返回特征向量长度（训练时的词表大小）
	Dim() int

	// Name 返回抽取器名称（用于日志/监控）
	Name() string
}
