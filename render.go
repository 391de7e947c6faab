package main

import (
	"strings"

	"treesearch/game"

	"github.com/muesli/termenv"
)

var markColors = map[game.Mark]string{
	game.X: "#E88388",
	game.O: "#66C2CD",
}

func renderBoard(board game.TicTacToe, profile termenv.Profile) string {
	var sb strings.Builder
	for i := 0; i < 9; i++ {
		mark := board.Square(i)
		cell := termenv.String(mark.String())
		if color, ok := markColors[mark]; ok && profile != termenv.Ascii {
			cell = cell.Foreground(profile.Color(color)).Bold()
		}
		sb.WriteString(cell.String())
		if i%3 == 2 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
