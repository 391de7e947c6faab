package game

import (
	"strings"

	"treesearch/searcher"
	"treesearch/utils"

	"golang.org/x/exp/rand"
)

type Mark int8

const (
	Empty Mark = iota
	X
	O
)

func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return "."
	}
}

const (
	WinScore  = 10.0
	LossScore = -WinScore
)

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// TicTacToe is a board position. Scores are taken from the point of view of
// perspective, the player who searches; Orient resets it to the player to move.
type TicTacToe struct {
	board       [9]Mark
	toMove      Mark
	perspective Mark
	rng         *rand.Rand
}

// NewTicTacToe returns the empty board with X to move.
func NewTicTacToe(seed uint64) TicTacToe {
	return TicTacToe{
		toMove:      X,
		perspective: X,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Play puts the mover's mark on square (0-8, row major).
func (t TicTacToe) Play(square int) TicTacToe {
	if square < 0 || square >= len(t.board) || t.board[square] != Empty {
		panic("illegal tic-tac-toe move")
	}
	t.board[square] = t.toMove
	t.toMove = t.toMove.Opponent()
	return t
}

func (t TicTacToe) Orient() searcher.State {
	t.perspective = t.toMove
	return t
}

func (t TicTacToe) ToMove() Mark {
	return t.toMove
}

func (t TicTacToe) Square(i int) Mark {
	return t.board[i]
}

// Winner returns the mark owning a full line, or Empty.
func (t TicTacToe) Winner() Mark {
	for _, line := range lines {
		a := t.board[line[0]]
		if a != Empty && a == t.board[line[1]] && a == t.board[line[2]] {
			return a
		}
	}
	return Empty
}

func (t TicTacToe) Full() bool {
	return utils.FindIndex(t.board[:], Empty) == -1
}

// Score is +-10 for a decided game and otherwise the difference in lines
// still open to each side.
func (t TicTacToe) Score() float64 {
	switch t.Winner() {
	case t.perspective:
		return WinScore
	case t.perspective.Opponent():
		return LossScore
	}
	return float64(t.openLines(t.perspective) - t.openLines(t.perspective.Opponent()))
}

func (t TicTacToe) openLines(m Mark) int {
	open := 0
	for _, line := range lines {
		cells := []Mark{t.board[line[0]], t.board[line[1]], t.board[line[2]]}
		if utils.Count(cells, m.Opponent()) == 0 {
			open++
		}
	}
	return open
}

func (t TicTacToe) HasNextStates() bool {
	return t.Winner() == Empty && !t.Full()
}

func (t TicTacToe) NextStates() []searcher.State {
	if !t.HasNextStates() {
		return nil
	}
	next := make([]searcher.State, 0, len(t.board))
	for i, m := range t.board {
		if m == Empty {
			next = append(next, t.Play(i))
		}
	}
	return next
}

func (t TicTacToe) SampleNextState() searcher.State {
	empty := make([]int, 0, len(t.board))
	for i, m := range t.board {
		if m == Empty {
			empty = append(empty, i)
		}
	}
	if len(empty) == 0 || t.Winner() != Empty {
		panic("cannot sample a successor of a finished game")
	}
	return t.Play(empty[t.rng.Intn(len(empty))])
}

func (t TicTacToe) String() string {
	var sb strings.Builder
	for i, m := range t.board {
		sb.WriteString(m.String())
		if i%3 == 2 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
