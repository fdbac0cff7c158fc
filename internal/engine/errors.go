package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDepth = errors.New("invalid search depth")
	ErrNoMoves      = errors.New("no legal moves")
)

// InvalidDepthError: search requested with MaxDepth < 1. A caller bug.
type InvalidDepthError struct {
	Depth int
}

func (e *InvalidDepthError) Error() string {
	return fmt.Sprintf("invalid search depth %d: must be at least 1", e.Depth)
}

func (e *InvalidDepthError) Unwrap() error { return ErrInvalidDepth }
