package model

import (
	"math/rand/v2"
	"sync"
)

// RandomModel 为每个候选独立地生成 [0, 1) 均匀分布的随机分数，不使用任何特征。
// 这是排序接口当前的参考行为：没有学习信号，仅用于打散候选顺序。
//
// rand.Rand 不是并发安全的，这里用互斥锁保护。
type RandomModel struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomModel 创建随机打分模型。seed 为 0 时使用随机种子。
func NewRandomModel(seed uint64) *RandomModel {
	var src rand.Source
	if seed == 0 {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	} else {
		src = rand.NewPCG(seed, seed)
	}
	return &RandomModel{rng: rand.New(src)}
}

func (m *RandomModel) Name() string { return "random" }

func (m *RandomModel) Predict(_ map[string]float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.Float64(), nil
}

var _ RankModel = (*RandomModel)(nil)
