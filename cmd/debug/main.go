package main

import (
	"flag"
	"fmt"
	"log"

	"checkers/internal/checkers"
)

func main() {
	fen := flag.String("pos", "", "encoded position (default: initial 8x8)")
	flag.Parse()

	pos := checkers.NewInitialPosition()
	if *fen != "" {
		var err error
		if pos, err = checkers.DecodePosition(*fen); err != nil {
			log.Fatal(err)
		}
	}
	fmt.Println("FEN:", pos.Encode())
	fmt.Print(pos.Grid())

	moves := pos.LegalMoves()
	fmt.Printf("Legal moves (%s): %d\n", pos.SideToMove, len(moves))
	for _, mv := range moves {
		fmt.Println(" ", mv.Notation(pos.Board.Size))
	}
}
