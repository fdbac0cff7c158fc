package game

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"

	"checkers/internal/checkers"
	"checkers/internal/engine"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameOver      = errors.New("game is over")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrPositionMoved = errors.New("position changed during search")
)

type Manager struct {
	mu    sync.RWMutex
	games map[string]*GameState
	subs  map[string]map[chan Snapshot]struct{}

	// 一次只跑一个搜索：Engine 的节点计数是共享的
	searchMu sync.Mutex
	engine   *engine.Engine
}

func NewManager(e *engine.Engine) *Manager {
	if e == nil {
		e = engine.NewEngine()
	}
	return &Manager{
		games:  make(map[string]*GameState),
		subs:   make(map[string]map[chan Snapshot]struct{}),
		engine: e,
	}
}

func (m *Manager) Engine() *engine.Engine { return m.engine }

func (m *Manager) NewGame(opts Options) (Snapshot, error) {
	size := opts.Size
	if size == 0 {
		size = checkers.DefaultSize
	}
	pos, err := checkers.NewInitialPositionSize(size)
	if err != nil {
		return Snapshot{}, err
	}
	if opts.Search.MaxDepth == 0 {
		opts.Search = engine.DifficultySettings[engine.Medium]
	}
	if opts.Search.MaxDepth < 1 {
		return Snapshot{}, &engine.InvalidDepthError{Depth: opts.Search.MaxDepth}
	}

	now := time.Now()
	g := &GameState{
		ID:        uuid.NewString(),
		Pos:       pos,
		Human:     opts.Human,
		Search:    opts.Search,
		Status:    StatusOngoing,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.games[g.ID] = g
	m.mu.Unlock()
	return g.snapshot(), nil
}

func (m *Manager) Get(id string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return Snapshot{}, ErrGameNotFound
	}
	return g.snapshot(), nil
}

// IDs lists the games in a stable order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	ids := maps.Keys(m.games)
	m.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return ErrGameNotFound
	}
	delete(m.games, id)
	for ch := range m.subs[id] {
		close(ch)
	}
	delete(m.subs, id)
	return nil
}

// Play applies a human move. The move must be legal in the current
// position; *checkers.IllegalMoveError is returned otherwise.
func (m *Manager) Play(id string, mv checkers.Move) (Snapshot, error) {
	m.mu.Lock()
	g, ok := m.games[id]
	if !ok {
		m.mu.Unlock()
		return Snapshot{}, ErrGameNotFound
	}
	if g.Status != StatusOngoing {
		m.mu.Unlock()
		return Snapshot{}, ErrGameOver
	}
	if g.Human != checkers.NoColor && g.Pos.SideToMove != g.Human {
		m.mu.Unlock()
		return Snapshot{}, ErrNotYourTurn
	}
	snap, err := m.applyLocked(g, mv)
	m.mu.Unlock()
	if err != nil {
		return Snapshot{}, err
	}
	m.publish(snap)
	return snap, nil
}

// PlayNotation is Play with a move written as "11-15" or "15x22".
func (m *Manager) PlayNotation(id, notation string) (Snapshot, error) {
	g, err := m.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	mv, err := checkers.ParseNotation(g.Pos.Board.Size, notation)
	if err != nil {
		return Snapshot{}, err
	}
	return m.Play(id, mv)
}

// AIMove lets the engine play the side to move.
func (m *Manager) AIMove(ctx context.Context, id string) (Snapshot, engine.SearchResult, error) {
	m.mu.RLock()
	g, ok := m.games[id]
	if !ok {
		m.mu.RUnlock()
		return Snapshot{}, engine.SearchResult{}, ErrGameNotFound
	}
	if g.Status != StatusOngoing {
		m.mu.RUnlock()
		return Snapshot{}, engine.SearchResult{}, ErrGameOver
	}
	if g.Human != checkers.NoColor && g.Pos.SideToMove == g.Human {
		m.mu.RUnlock()
		return Snapshot{}, engine.SearchResult{}, ErrNotYourTurn
	}
	pos, cfg, ply := g.Pos, g.Search, len(g.History)
	m.mu.RUnlock()

	// 搜索时不持有对局锁
	m.searchMu.Lock()
	res, err := m.engine.Search(ctx, pos, cfg)
	m.searchMu.Unlock()
	if err != nil {
		return Snapshot{}, res, fmt.Errorf("engine search: %w", err)
	}

	m.mu.Lock()
	if len(g.History) != ply {
		m.mu.Unlock()
		return Snapshot{}, res, ErrPositionMoved
	}
	snap, err := m.applyLocked(g, res.BestMove)
	m.mu.Unlock()
	if err != nil {
		return Snapshot{}, res, err
	}
	m.publish(snap)
	return snap, res, nil
}

// Analyze searches an arbitrary position without touching any game.
func (m *Manager) Analyze(ctx context.Context, pos *checkers.Position, cfg engine.SearchConfig) (engine.SearchResult, error) {
	m.searchMu.Lock()
	defer m.searchMu.Unlock()
	return m.engine.Search(ctx, pos, cfg)
}

func (m *Manager) applyLocked(g *GameState, mv checkers.Move) (Snapshot, error) {
	mv, err := g.Pos.Resolve(mv)
	if err != nil {
		return Snapshot{}, err
	}
	next := g.Pos.Successor(mv)
	g.Pos = next
	g.History = append(g.History, mv)
	g.Status = statusOf(next)
	g.UpdatedAt = time.Now()
	return g.snapshot(), nil
}

// Subscribe returns a channel receiving a snapshot after every move of the
// game and a cancel func. Slow subscribers miss updates rather than block
// the game.
func (m *Manager) Subscribe(id string) (<-chan Snapshot, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return nil, nil, ErrGameNotFound
	}
	ch := make(chan Snapshot, 8)
	if m.subs[id] == nil {
		m.subs[id] = make(map[chan Snapshot]struct{})
	}
	m.subs[id][ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.subs[id][ch]; ok {
				delete(m.subs[id], ch)
				close(ch)
			}
		})
	}
	return ch, cancel, nil
}

func (m *Manager) publish(s Snapshot) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for ch := range m.subs[s.ID] {
		select {
		case ch <- s:
		default:
		}
	}
}
