package engine

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty represents the AI strength.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply
	Medium                   // 5 ply，原版固定看 5 步
	Hard                     // 8 ply
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchConfig{
	Easy:   {MaxDepth: 2, TimeLimit: 300 * time.Millisecond},
	Medium: {MaxDepth: 5, TimeLimit: 2 * time.Second},
	Hard:   {MaxDepth: 8, TimeLimit: 5 * time.Second},
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "", "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return Medium, fmt.Errorf("unknown difficulty %q", s)
	}
}
