package engine

import "checkers/internal/checkers"

// Entry is a finished root search kept across processes.
type Entry struct {
	Move  checkers.Move `json:"move"`
	Score int           `json:"score"`
	Depth int           `json:"depth"`
}

// ResultCache stores root search results keyed by position hash, search
// depth and evaluator name (see Material.Name). Evaluators without a name
// never reach the cache. Lookups that fail are misses; the engine re-checks
// every hit against the legal moves, so a hash collision cannot produce an
// illegal reply.
type ResultCache interface {
	Lookup(hash uint64, depth int, evaluator string) (Entry, bool)
	Store(hash uint64, depth int, evaluator string, entry Entry) error
}

func (e *Engine) probeBook(pos *checkers.Position, depth int, legal []checkers.Move) (Entry, bool) {
	if e.book == nil || e.evName == "" {
		return Entry{}, false
	}
	ent, ok := e.book.Lookup(hashOf(pos), depth, e.evName)
	if !ok {
		return Entry{}, false
	}
	for _, m := range legal {
		if m.Equal(ent.Move) {
			ent.Move = m
			return ent, true
		}
	}
	return Entry{}, false
}

// 存入 book：只存完整完成的搜索
func (e *Engine) storeBook(pos *checkers.Position, res SearchResult) {
	if e.book == nil || e.evName == "" || res.Aborted || res.FromBook || res.BestMove.IsZero() {
		return
	}
	// 写失败由 book 自己记录，搜索结果不受影响
	_ = e.book.Store(hashOf(pos), res.Depth, e.evName, Entry{
		Move:  res.BestMove,
		Score: res.Score,
		Depth: res.Depth,
	})
}
