package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrCellEmpty         = errors.New("cell is already empty")
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrInvalidBoard      = errors.New("invalid board")
	ErrInvalidBoardSize  = errors.New("invalid board size")
	ErrInvalidPlayer     = errors.New("invalid player mark")
	ErrNoAvailableMoves  = errors.New("no available moves")
	ErrUnknownGameStatus = errors.New("unknown game status")
)
