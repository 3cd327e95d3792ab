package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

// MinSize is the smallest board a game is played on; smaller boards are degenerate.
const MinSize = 3

type Game struct {
	Board  *Board
	Turn   Cell
	Winner Cell
	Status string
}

func NewGame(size int, first Cell) (*Game, error) {
	if size < MinSize {
		return nil, fmt.Errorf("%w: %d, must be %d or greater", apperror.ErrInvalidBoardSize, size, MinSize)
	}

	if !first.IsPlayer() {
		return nil, fmt.Errorf("%w: first player must be X or O", apperror.ErrInvalidPlayer)
	}

	return &Game{
		Board:  NewBoard(size),
		Turn:   first,
		Status: StatusOngoing,
	}, nil
}

func (that *Game) UpdateGameState() {
	switch winner := that.Board.Winner(); {
	// one player wins
	case winner != Empty:
		that.Winner = winner
		that.Status = StatusFinished
		that.Turn = Empty
	// tie
	case that.Board.IsFull():
		that.Winner = Empty
		that.Status = StatusFinished
		that.Turn = Empty
	// game continue
	default:
		that.Status = StatusOngoing
	}
}

func (that *Game) MakeTurn(player Cell, move Move) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if !that.Board.InRange(move.Row, move.Col) {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrInvalidCell, move.Row, move.Col)
	}

	if that.Turn != player {
		return apperror.ErrNotYourTurn
	}

	if !that.Board.ApplyMove(move.Row, move.Col, player) {
		return apperror.ErrCellOccupied
	}

	that.Turn = player.Opponent()
	that.UpdateGameState()

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsTie() bool {
	return that.IsFinished() && that.Winner == Empty
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", apperror.ErrUnknownGameStatus, that.Status)
	}
}
