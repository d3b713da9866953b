package planner

import (
	"math/rand/v2"
	"sync"
	"time"
)

// LockedNoise 并发安全的噪声源，服务端与 CLI 共用同一播种方式
type LockedNoise struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewNoise seed 为 0 时按当前时间播种；相同 seed 产生相同序列
func NewNoise(seed uint64) *LockedNoise {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &LockedNoise{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (n *LockedNoise) Float64() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rng.Float64()
}
