package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var ErrGameNotStarted = errors.New("game is not started")

const (
	HumanMark = entity.X
	BotMark   = entity.O
)

type bot interface {
	MakeTurn(ctx context.Context, game *entity.Game) (entity.Move, error)
	Reset()
}

// Turn is the outcome of one request: the human move, if any, and the AI reply, if any.
type Turn struct {
	Game  *entity.Game
	Human *entity.Move
	AI    *entity.Move
}

// GameManager runs a single game between a human playing X and the bot playing O.
type GameManager struct {
	logger *slog.Logger
	bot    bot

	game *entity.Game
}

func NewGameManager(logger *slog.Logger, bot bot) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),
		bot:    bot,
	}
}

// Start begins a new game and forgets everything the bot memoized for the previous one.
func (that *GameManager) Start(ctx context.Context, size int, aiFirst bool) (*Turn, error) {
	log := that.logger.With("method", "Start")

	first := HumanMark
	if aiFirst {
		first = BotMark
	}

	game, err := entity.NewGame(size, first)
	if err != nil {
		return nil, fmt.Errorf("failed create game: %w", err)
	}

	that.bot.Reset()
	that.game = game

	log.Info("game started", "size", size, "ai_first", aiFirst)

	turn := &Turn{Game: game}
	if aiFirst {
		if turn.AI, err = that.botTurn(ctx); err != nil {
			return nil, err
		}
	}

	return turn, nil
}

// MakeTurn plays the human move and, while the game is still ongoing, the bot reply.
// An illegal human move leaves the game unchanged.
func (that *GameManager) MakeTurn(ctx context.Context, row, col int) (*Turn, error) {
	if that.game == nil {
		return nil, ErrGameNotStarted
	}

	human := entity.Move{Row: row, Col: col}
	if err := that.game.MakeTurn(HumanMark, human); err != nil {
		return nil, fmt.Errorf("failed make turn: %w", err)
	}

	turn := &Turn{Game: that.game, Human: &human}

	if that.game.IsOngoing() {
		ai, err := that.botTurn(ctx)
		if err != nil {
			return nil, err
		}

		turn.AI = ai
	}

	if that.game.IsFinished() {
		that.logger.Info("game finished", "winner", that.game.Winner.String(), "tie", that.game.IsTie())
	}

	return turn, nil
}

func (that *GameManager) Game() *entity.Game {
	return that.game
}

func (that *GameManager) botTurn(ctx context.Context) (*entity.Move, error) {
	move, err := that.bot.MakeTurn(ctx, that.game)
	if err != nil {
		return nil, fmt.Errorf("failed bot turn: %w", err)
	}

	return &move, nil
}
