package core

// FeatureVector 是单条文本的定长数值表示，长度等于训练时的词表大小。
// 位置 i 的取值对应词表中下标为 i 的词项。
type FeatureVector []float64

// Dim 返回向量长度
func (v FeatureVector) Dim() int { return len(v) }

// IsZero 判断是否为全零向量（空文本或全部为未登录词）
func (v FeatureVector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// PredictionVector 是多标签分类的 multi-hot 输出，每个分量为 0 或 1，
// 长度等于标签空间大小 K。
type PredictionVector []int

// TagSet 是解码后的标签集合，按标签下标顺序排列，不含重复。
type TagSet []string
