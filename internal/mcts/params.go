package mcts

import (
	"math"
	"time"
)

type SearchParams struct {
	Simulations int
	MaxTime     time.Duration
	NumThreads  int

	CpuctExploration     float64
	CpuctExplorationBase float64
	CpuctExplorationLog  float64

	FpuReductionMax float64

	// 叶子估值 -> utility：tanh(score / EvalScale)
	EvalScale float64
}

func DefaultParams() SearchParams {
	return SearchParams{
		Simulations:          4000,
		MaxTime:              2 * time.Second,
		NumThreads:           4,
		CpuctExploration:     1.1,
		CpuctExplorationBase: 10000.0,
		CpuctExplorationLog:  0.4,
		FpuReductionMax:      0.2,
		EvalScale:            400,
	}
}

func (p *SearchParams) GetCpuct(totalChildWeight float64) float64 {
	return p.CpuctExploration + p.CpuctExplorationLog*math.Log((totalChildWeight+p.CpuctExplorationBase)/p.CpuctExplorationBase)
}
