package mcts

import (
	"sync"
	"sync/atomic"

	"checkers/internal/checkers"
)

const (
	StateUnevaluated = iota
	StateEvaluating
	StateExpanded
)

type NodeStats struct {
	Visits     int64
	WeightSum  float64
	UtilityAvg float64 // Black 视角：1 黑胜，-1 红胜
}

type Node struct {
	mu sync.Mutex

	Move     checkers.Move
	NextPla  checkers.Color // 该节点局面的走子方
	Parent   *Node
	Children []*Node // 与 LegalMoves 同序
	Prior    float32
	State    int32 // atomic

	Stats         NodeStats
	VirtualLosses int32 // atomic

	IsTerminal bool
	Winner     checkers.Color
}

func NewNode(mv checkers.Move, parent *Node, pla checkers.Color) *Node {
	return &Node{
		Move:    mv,
		Parent:  parent,
		NextPla: pla,
		State:   StateUnevaluated,
		Winner:  checkers.NoColor,
	}
}

func (n *Node) visits() int64 { return atomic.LoadInt64(&n.Stats.Visits) }

func (n *Node) RecordPlayout(utility float64, weight float64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	atomic.AddInt64(&n.Stats.Visits, 1)
	n.Stats.WeightSum += weight
	delta := utility - n.Stats.UtilityAvg
	n.Stats.UtilityAvg += delta * weight / n.Stats.WeightSum
}

// GetUtilityForSelection returns the average utility from pla's side.
func (n *Node) GetUtilityForSelection(pla checkers.Color) float64 {
	n.mu.Lock()
	avg := n.Stats.UtilityAvg
	n.mu.Unlock()
	if pla == checkers.Black {
		return avg
	}
	return -avg
}
