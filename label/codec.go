// Package label 负责标签下标与可读标签名之间的映射。
package label

import (
	"encoding/json"
	"fmt"

	"github.com/rushteam/tagkit/core"
)

// Codec 是标签编解码器：把 multi-hot 预测向量还原为标签集合。
// LabelCount 在加载期用于校验分类器输出维度。
type Codec interface {
	Decode(vec core.PredictionVector) (core.TagSet, error)
	LabelCount() int
	Classes() []string
}

// MultiLabelBinarizer 使用训练期确定的有序类别表做解码：第 i 位为 1 则输出 classes[i]。
type MultiLabelBinarizer struct {
	classes []string
	index   map[string]int
}

type binarizerState struct {
	Classes []string `json:"classes"`
}

// DecodeMultiLabelBinarizer 从模型文件内容反序列化标签编码器。
func DecodeMultiLabelBinarizer(data []byte) (*MultiLabelBinarizer, error) {
	var st binarizerState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse label binarizer: %w", err)
	}
	return NewMultiLabelBinarizer(st.Classes)
}

// NewMultiLabelBinarizer 创建编码器，类别表不能为空、不能包含空串或重复项。
func NewMultiLabelBinarizer(classes []string) (*MultiLabelBinarizer, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("label binarizer has no classes")
	}
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		if c == "" {
			return nil, fmt.Errorf("class %d is empty", i)
		}
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("class %q appears more than once", c)
		}
		index[c] = i
	}
	return &MultiLabelBinarizer{
		classes: append([]string(nil), classes...),
		index:   index,
	}, nil
}

func (b *MultiLabelBinarizer) LabelCount() int { return len(b.classes) }

// Classes 返回类别表副本
func (b *MultiLabelBinarizer) Classes() []string {
	return append([]string(nil), b.classes...)
}

// Decode 将 multi-hot 向量还原为标签集合；全零向量得到空集合（非 nil）。
// 长度不符或出现 0/1 以外的取值说明加载期的兼容性校验被绕过，返回错误。
func (b *MultiLabelBinarizer) Decode(vec core.PredictionVector) (core.TagSet, error) {
	if len(vec) != len(b.classes) {
		return nil, core.NewPredictionError(core.ModuleLabel,
			fmt.Errorf("prediction vector has length %d, label binarizer expects %d", len(vec), len(b.classes)))
	}
	tags := make(core.TagSet, 0)
	for i, x := range vec {
		switch x {
		case 0:
		case 1:
			tags = append(tags, b.classes[i])
		default:
			return nil, core.NewPredictionError(core.ModuleLabel,
				fmt.Errorf("prediction vector component %d has value %d, expected 0 or 1", i, x))
		}
	}
	return tags, nil
}

// Encode 将标签集合编码为 multi-hot 向量，未知标签返回错误。
func (b *MultiLabelBinarizer) Encode(tags []string) (core.PredictionVector, error) {
	vec := make(core.PredictionVector, len(b.classes))
	for _, t := range tags {
		i, ok := b.index[t]
		if !ok {
			return nil, fmt.Errorf("unknown label %q", t)
		}
		vec[i] = 1
	}
	return vec, nil
}

var _ Codec = (*MultiLabelBinarizer)(nil)
