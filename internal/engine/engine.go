package engine

import (
	"sync"

	"checkers/internal/checkers"
)

const evalCacheCap = 500_000

// 叶子估值缓存，按 Zobrist 哈希索引。估值是纯函数，缓存不会改变搜索结果。
type evalCache struct {
	mu sync.RWMutex
	m  map[uint64]int
}

type Engine struct {
	nodes int64

	ev     Evaluator
	evName string
	cache  *evalCache

	book ResultCache
}

func NewEngine() *Engine {
	return &Engine{
		ev:     DefaultMaterial,
		evName: evaluatorName(DefaultMaterial),
		cache:  &evalCache{m: make(map[uint64]int, 1<<16)},
	}
}

// SetEvaluator swaps the evaluation function and drops cached leaf scores.
// Not safe to call while a search is running.
func (e *Engine) SetEvaluator(ev Evaluator) {
	if ev == nil {
		ev = DefaultMaterial
	}
	e.ev = ev
	e.evName = evaluatorName(ev)
	e.cache = &evalCache{m: make(map[uint64]int, 1<<16)}
}

func (e *Engine) Evaluator() Evaluator { return e.ev }

// UseBook attaches a persistent cache of finished root searches.
func (e *Engine) UseBook(b ResultCache) { e.book = b }

// 搜索层调用这个；调用方已经排除了终局
func (e *Engine) eval(pos *checkers.Position) int {
	key := hashOf(pos)
	if v, ok := e.getEvalFromCache(key); ok {
		return v
	}
	v := e.ev.Evaluate(pos)
	e.storeEvalCache(key, v)
	return v
}

func (e *Engine) getEvalFromCache(key uint64) (int, bool) {
	if e.cache == nil {
		return 0, false
	}
	e.cache.mu.RLock()
	v, ok := e.cache.m[key]
	e.cache.mu.RUnlock()
	return v, ok
}

func (e *Engine) storeEvalCache(key uint64, score int) {
	if e.cache == nil {
		return
	}
	e.cache.mu.Lock()
	if len(e.cache.m) > evalCacheCap {
		e.cache.m = make(map[uint64]int, 1<<16)
	}
	e.cache.m[key] = score
	e.cache.mu.Unlock()
}

func hashOf(pos *checkers.Position) uint64 {
	if pos.Hash != 0 {
		return pos.Hash
	}
	return pos.CalculateHash()
}
