package feature

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rushteam/tagkit/core"
)

// 归一化方式
const (
	NormL2   = "l2"
	NormL1   = "l1"
	NormNone = "none"
)

// TfidfVectorizer 是词袋 + TF-IDF 加权的文本向量化器。
//
// 计算流程：
//  1. 预处理：可选小写化
//  2. 分词：默认 WordTokenizer，或 token_pattern 指定的正则（见 NewTokenizer）
//  3. 去停用词，生成 [min_n, max_n] 的词 n-gram
//  4. 词频统计：只统计词表内的词项，未登录词忽略
//  5. 加权：binary 时词频截断为 1；sublinear_tf 时 tf = 1 + ln(tf)；再乘 idf
//  6. 归一化：l2 / l1 / none
//
// 加载后只读，Transform 可并发调用。
type TfidfVectorizer struct {
	vocabulary  map[string]int
	idf         []float64 // 为空表示不使用 idf
	lowercase   bool
	tokenizer   Tokenizer
	stopWords   map[string]struct{}
	minN, maxN  int
	binary      bool
	sublinearTF bool
	norm        string
	dim         int
}

// tfidfState 是向量化器模型文件的 JSON 结构。
type tfidfState struct {
	Type         string         `json:"type"`
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf,omitempty"`
	Lowercase    *bool          `json:"lowercase,omitempty"`
	TokenPattern string         `json:"token_pattern,omitempty"`
	NgramRange   []int          `json:"ngram_range,omitempty"`
	StopWords    []string       `json:"stop_words,omitempty"`
	Binary       bool           `json:"binary,omitempty"`
	SublinearTF  bool           `json:"sublinear_tf,omitempty"`
	Norm         *string        `json:"norm,omitempty"`
}

// DecodeTfidfVectorizer 从模型文件内容反序列化向量化器，并校验内部一致性：
//   - 词表非空，下标覆盖 [0, L) 且不重复
//   - idf（如有）长度等于 L
//   - ngram_range 合法、norm 取值合法
func DecodeTfidfVectorizer(data []byte) (*TfidfVectorizer, error) {
	var st tfidfState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse vectorizer: %w", err)
	}
	if st.Type != "" && st.Type != "tfidf" {
		return nil, fmt.Errorf("unsupported vectorizer type: %s", st.Type)
	}
	return newTfidfVectorizer(st)
}

func newTfidfVectorizer(st tfidfState) (*TfidfVectorizer, error) {
	dim := len(st.Vocabulary)
	if dim == 0 {
		return nil, fmt.Errorf("vectorizer vocabulary is empty")
	}
	seen := make([]bool, dim)
	for term, idx := range st.Vocabulary {
		if idx < 0 || idx >= dim {
			return nil, fmt.Errorf("vocabulary index %d for term %q out of range [0, %d)", idx, term, dim)
		}
		if seen[idx] {
			return nil, fmt.Errorf("vocabulary index %d assigned more than once", idx)
		}
		seen[idx] = true
	}
	if len(st.IDF) > 0 && len(st.IDF) != dim {
		return nil, fmt.Errorf("idf length %d does not match vocabulary size %d", len(st.IDF), dim)
	}

	v := &TfidfVectorizer{
		vocabulary:  st.Vocabulary,
		idf:         st.IDF,
		lowercase:   true,
		minN:        1,
		maxN:        1,
		binary:      st.Binary,
		sublinearTF: st.SublinearTF,
		norm:        NormL2,
		dim:         dim,
	}
	if st.Lowercase != nil {
		v.lowercase = *st.Lowercase
	}
	tok, err := NewTokenizer(st.TokenPattern)
	if err != nil {
		return nil, err
	}
	v.tokenizer = tok
	if len(st.NgramRange) > 0 {
		if len(st.NgramRange) != 2 || st.NgramRange[0] < 1 || st.NgramRange[1] < st.NgramRange[0] {
			return nil, fmt.Errorf("invalid ngram_range %v", st.NgramRange)
		}
		v.minN, v.maxN = st.NgramRange[0], st.NgramRange[1]
	}
	if len(st.StopWords) > 0 {
		v.stopWords = make(map[string]struct{}, len(st.StopWords))
		for _, w := range st.StopWords {
			v.stopWords[w] = struct{}{}
		}
	}
	if st.Norm != nil {
		switch strings.ToLower(*st.Norm) {
		case NormL2:
			v.norm = NormL2
		case NormL1:
			v.norm = NormL1
		case "", NormNone:
			v.norm = NormNone
		default:
			return nil, fmt.Errorf("unsupported norm %q", *st.Norm)
		}
	}
	return v, nil
}

func (v *TfidfVectorizer) Name() string { return "tfidf" }

// Dim 返回特征向量长度
func (v *TfidfVectorizer) Dim() int { return v.dim }

// Terms 返回按下标排列的词表
func (v *TfidfVectorizer) Terms() []string {
	terms := make([]string, v.dim)
	for term, idx := range v.vocabulary {
		terms[idx] = term
	}
	return terms
}

// Transform 将文本转换为长度为 Dim() 的特征向量。
func (v *TfidfVectorizer) Transform(text string) (core.FeatureVector, error) {
	vec := make(core.FeatureVector, v.dim)
	if text == "" {
		return vec, nil
	}

	if v.lowercase {
		text = strings.ToLower(text)
	}
	tokens := v.tokenizer.Tokenize(text)
	if v.stopWords != nil {
		kept := tokens[:0:0]
		for _, tok := range tokens {
			if _, stop := v.stopWords[tok]; !stop {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}

	for _, term := range wordNgrams(tokens, v.minN, v.maxN) {
		idx, ok := v.vocabulary[term]
		if !ok {
			continue
		}
		if idx < 0 || idx >= v.dim {
			return nil, core.NewTransformError(fmt.Sprintf("vocabulary index %d out of range for term %q", idx, term))
		}
		vec[idx]++
	}

	for i, tf := range vec {
		if tf == 0 {
			continue
		}
		switch {
		case v.binary:
			tf = 1
		case v.sublinearTF:
			tf = 1 + math.Log(tf)
		}
		if len(v.idf) > 0 {
			tf *= v.idf[i]
		}
		vec[i] = tf
	}

	normalize(vec, v.norm)
	return vec, nil
}

func normalize(vec core.FeatureVector, norm string) {
	var total float64
	switch norm {
	case NormL2:
		for _, x := range vec {
			total += x * x
		}
		total = math.Sqrt(total)
	case NormL1:
		for _, x := range vec {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range vec {
		vec[i] /= total
	}
}

var _ Extractor = (*TfidfVectorizer)(nil)
