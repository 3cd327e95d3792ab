package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Cell is the content of a single board square.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

func (that Cell) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return " "
	}
}

// Opponent returns the other player's mark. Empty has no opponent.
func (that Cell) Opponent() Cell {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// IsPlayer reports whether the cell is a player's mark.
func (that Cell) IsPlayer() bool {
	return that == X || that == O
}

// ParseCell converts "X" or "O" (any case) into a player mark.
func ParseCell(mark string) (Cell, error) {
	switch strings.ToUpper(strings.TrimSpace(mark)) {
	case "X":
		return X, nil
	case "O":
		return O, nil
	default:
		return Empty, fmt.Errorf("%w: %q", apperror.ErrInvalidPlayer, mark)
	}
}

// Move is a 0-indexed board coordinate.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) String() string {
	return fmt.Sprintf("%d %d", that.Row, that.Col)
}

// Key is an immutable row-major snapshot of the board content. Equal grids have equal keys.
type Key string

// Board is an N×N grid. Its shape is fixed at construction, its content is mutated in place.
type Board struct {
	size  int
	cells []Cell
}

func NewBoard(size int) *Board {
	return &Board{
		size:  size,
		cells: make([]Cell, size*size),
	}
}

func (that *Board) Size() int {
	return that.size
}

func (that *Board) InRange(row, col int) bool {
	return row >= 0 && row < that.size && col >= 0 && col < that.size
}

// At returns the cell content, or Empty for coordinates outside the board.
func (that *Board) At(row, col int) Cell {
	if !that.InRange(row, col) {
		return Empty
	}

	return that.cells[row*that.size+col]
}

// ApplyMove places player on an empty in-range cell. It reports false and leaves the
// board untouched otherwise.
func (that *Board) ApplyMove(row, col int, player Cell) bool {
	if !player.IsPlayer() || !that.InRange(row, col) {
		return false
	}

	idx := row*that.size + col
	if that.cells[idx] != Empty {
		return false
	}

	that.cells[idx] = player

	return true
}

// UndoMove clears a cell previously set by ApplyMove.
func (that *Board) UndoMove(row, col int) error {
	if !that.InRange(row, col) {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrInvalidCell, row, col)
	}

	idx := row*that.size + col
	if that.cells[idx] == Empty {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrCellEmpty, row, col)
	}

	that.cells[idx] = Empty

	return nil
}

// Try plays player at move, runs fn and takes the move back on every exit path.
// It reports false without calling fn when the move is illegal.
func (that *Board) Try(move Move, player Cell, fn func()) bool {
	if !that.ApplyMove(move.Row, move.Col, player) {
		return false
	}
	defer func() {
		that.cells[move.Row*that.size+move.Col] = Empty
	}()

	fn()

	return true
}

// IsWinner reports whether player owns a full row, column or diagonal.
func (that *Board) IsWinner(player Cell) bool {
	if !player.IsPlayer() {
		return false
	}

	n := that.size

	for row := 0; row < n; row++ {
		if that.line(player, row*n, 1) {
			return true
		}
	}

	for col := 0; col < n; col++ {
		if that.line(player, col, n) {
			return true
		}
	}

	// main diagonal, then anti-diagonal
	return that.line(player, 0, n+1) || that.line(player, n-1, n-1)
}

// line checks the n cells starting at start and advancing by step.
func (that *Board) line(player Cell, start, step int) bool {
	if that.size == 0 {
		return false
	}

	for i, idx := 0, start; i < that.size; i, idx = i+1, idx+step {
		if that.cells[idx] != player {
			return false
		}
	}

	return true
}

// Winner returns the mark owning a completed line, or Empty.
func (that *Board) Winner() Cell {
	switch {
	case that.IsWinner(X):
		return X
	case that.IsWinner(O):
		return O
	default:
		return Empty
	}
}

func (that *Board) IsFull() bool {
	for _, cell := range that.cells {
		if cell == Empty {
			return false
		}
	}

	return true
}

func (that *Board) Count(player Cell) int {
	count := 0
	for _, cell := range that.cells {
		if cell == player {
			count++
		}
	}

	return count
}

// Moves lists the empty cells in row-major order.
func (that *Board) Moves() []Move {
	moves := make([]Move, 0, len(that.cells))
	for idx, cell := range that.cells {
		if cell == Empty {
			moves = append(moves, Move{Row: idx / that.size, Col: idx % that.size})
		}
	}

	return moves
}

func (that *Board) Key() Key {
	key := make([]byte, len(that.cells))
	for idx, cell := range that.cells {
		key[idx] = cellSymbol(cell)
	}

	return Key(key)
}

func (that *Board) Clone() *Board {
	clone := &Board{
		size:  that.size,
		cells: make([]Cell, len(that.cells)),
	}
	copy(clone.cells, that.cells)

	return clone
}

// String renders the board the way the console shows it: rows joined with "|",
// each followed by a dashed separator.
func (that *Board) String() string {
	var sb strings.Builder

	separator := strings.Repeat("-", max(that.size*2-1, 0))
	row := make([]string, that.size)

	for r := 0; r < that.size; r++ {
		for c := 0; c < that.size; c++ {
			row[c] = that.At(r, c).String()
		}
		sb.WriteString(strings.Join(row, "|"))
		sb.WriteByte('\n')
		sb.WriteString(separator)
		sb.WriteByte('\n')
	}

	return sb.String()
}

// ParseBoard reads a square board written row by row. Rows are separated by "/" or
// newlines; cells are "X", "O", and "." or " " for empty squares.
func ParseBoard(text string) (*Board, error) {
	text = strings.Trim(text, "\n")
	rows := strings.FieldsFunc(text, func(r rune) bool {
		return r == '/' || r == '\n'
	})

	size := len(rows)
	if size == 0 {
		return nil, fmt.Errorf("%w: no rows", apperror.ErrInvalidBoard)
	}

	board := NewBoard(size)
	for r, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", apperror.ErrInvalidBoard, r, len(row), size)
		}

		for c, symbol := range []byte(row) {
			switch symbol {
			case 'X', 'x':
				board.cells[r*size+c] = X
			case 'O', 'o':
				board.cells[r*size+c] = O
			case '.', ' ':
			default:
				return nil, fmt.Errorf("%w: unexpected symbol %q at row %d col %d", apperror.ErrInvalidBoard, symbol, r, c)
			}
		}
	}

	return board, nil
}

func cellSymbol(cell Cell) byte {
	switch cell {
	case X:
		return 'X'
	case O:
		return 'O'
	default:
		return '.'
	}
}
