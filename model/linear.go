package model

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/rushteam/tagkit/core"
)

// 链接函数
const (
	LinkLogistic = "logistic" // 概率输出：P = 1 / (1 + exp(-z))
	LinkIdentity = "identity" // 直接使用线性决策值 z
)

// OneVsRestLinear 实现了 One-vs-Rest 多标签线性分类器。
// 每个标签对应一个独立的二分类线性模型，标签之间互不影响，可同时命中多个。
//
// 预测原理（对每个标签 k）：
//  1. 线性加权求和: z_k = Intercept_k + sum(Coef_k_i * x_i)
//  2. 链接函数: logistic 时 s_k = sigmoid(z_k)，identity 时 s_k = z_k
//  3. 阈值判定: s_k > Threshold 则第 k 位为 1
//
// 默认阈值：logistic 为 0.5，identity 为 0，与训练侧 predict 的判定一致。
type OneVsRestLinear struct {
	Coef      [][]float64 // K x L 权重矩阵
	Intercept []float64   // 长度 K 的偏置项
	Link      string
	Threshold float64

	inputDim int
}

type linearState struct {
	Type      string      `json:"type"`
	Link      string      `json:"link,omitempty"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept,omitempty"`
	Threshold *float64    `json:"threshold,omitempty"`
}

// DecodeOneVsRestLinear 从模型文件内容反序列化分类器，并校验矩阵形状。
func DecodeOneVsRestLinear(data []byte) (*OneVsRestLinear, error) {
	var st linearState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse classifier: %w", err)
	}
	switch st.Type {
	case "", "one_vs_rest", "ovr_logistic":
	default:
		return nil, fmt.Errorf("unsupported classifier type: %s", st.Type)
	}

	link := st.Link
	if link == "" {
		link = LinkLogistic
	}
	var threshold float64
	switch link {
	case LinkLogistic:
		threshold = 0.5
	case LinkIdentity:
		threshold = 0
	default:
		return nil, fmt.Errorf("unsupported link %q", st.Link)
	}
	if st.Threshold != nil {
		threshold = *st.Threshold
	}

	intercept := st.Intercept
	if intercept == nil {
		intercept = make([]float64, len(st.Coef))
	}
	return NewOneVsRestLinear(st.Coef, intercept, link, threshold)
}

// NewOneVsRestLinear 创建分类器，要求 coef 为非空的规则矩阵且 intercept 长度等于行数。
func NewOneVsRestLinear(coef [][]float64, intercept []float64, link string, threshold float64) (*OneVsRestLinear, error) {
	if len(coef) == 0 {
		return nil, fmt.Errorf("classifier has no classes")
	}
	inputDim := len(coef[0])
	if inputDim == 0 {
		return nil, fmt.Errorf("classifier has zero input dimension")
	}
	for k, row := range coef {
		if len(row) != inputDim {
			return nil, fmt.Errorf("coef row %d has length %d, expected %d", k, len(row), inputDim)
		}
	}
	if len(intercept) != len(coef) {
		return nil, fmt.Errorf("intercept length %d does not match class count %d", len(intercept), len(coef))
	}
	return &OneVsRestLinear{
		Coef:      coef,
		Intercept: intercept,
		Link:      link,
		Threshold: threshold,
		inputDim:  inputDim,
	}, nil
}

func (m *OneVsRestLinear) Name() string { return "ovr_linear" }

func (m *OneVsRestLinear) InputDim() int { return m.inputDim }

func (m *OneVsRestLinear) OutputDim() int { return len(m.Coef) }

// Scores 返回每个标签经过链接函数后的分数。
func (m *OneVsRestLinear) Scores(vec core.FeatureVector) ([]float64, error) {
	if len(vec) != m.inputDim {
		return nil, core.NewPredictionError(core.ModuleModel,
			fmt.Errorf("feature vector has length %d, classifier expects %d", len(vec), m.inputDim))
	}
	scores := make([]float64, len(m.Coef))
	for k, row := range m.Coef {
		z := m.Intercept[k]
		for i, x := range vec {
			if x != 0 {
				z += row[i] * x
			}
		}
		if m.Link == LinkLogistic {
			z = sigmoid(z)
		}
		scores[k] = z
	}
	return scores, nil
}

// Predict 返回 multi-hot 预测向量。
func (m *OneVsRestLinear) Predict(vec core.FeatureVector) (core.PredictionVector, error) {
	scores, err := m.Scores(vec)
	if err != nil {
		return nil, err
	}
	out := make(core.PredictionVector, len(scores))
	for k, s := range scores {
		if s > m.Threshold {
			out[k] = 1
		}
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

var _ Classifier = (*OneVsRestLinear)(nil)
