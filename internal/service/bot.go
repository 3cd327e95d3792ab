package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
)

type decisionRepo interface {
	CreateOrUpdate(ctx context.Context, decision *entity.Decision) error
	GetByKey(ctx context.Context, size int, player string, board entity.Key) (*entity.Decision, error)
}

type searcher interface {
	Decide(board *entity.Board, player entity.Cell) (entity.Decision, bool)
	Reset()
}

type BotService interface {
	MakeTurn(ctx context.Context, game *entity.Game) (entity.Move, error)
	Reset()
}

type botService struct {
	logger       *slog.Logger
	searcher     searcher
	decisionRepo decisionRepo
	mark         entity.Cell
}

// NewBotService returns a bot playing mark. Decisions are looked up in decisionRepo
// before searching and stored there afterwards.
func NewBotService(logger *slog.Logger, searcher searcher, decisionRepo decisionRepo, mark entity.Cell) BotService {
	return &botService{
		logger:       logger.With("component", "bot"),
		searcher:     searcher,
		decisionRepo: decisionRepo,
		mark:         mark,
	}
}

func (that *botService) MakeTurn(ctx context.Context, game *entity.Game) (entity.Move, error) {
	if err := game.ConfirmOngoingState(); err != nil {
		return entity.Move{}, err
	}

	if game.Turn != that.mark {
		return entity.Move{}, apperror.ErrNotYourTurn
	}

	if game.Board.IsFull() {
		return entity.Move{}, apperror.ErrNoAvailableMoves
	}

	move, ok := that.cachedMove(ctx, game.Board)
	if !ok {
		decision, found := that.searcher.Decide(game.Board, that.mark)
		if !found {
			return entity.Move{}, apperror.ErrNoAvailableMoves
		}

		that.storeDecision(ctx, &decision)
		move = decision.Move
	}

	if err := game.MakeTurn(that.mark, move); err != nil {
		return entity.Move{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return move, nil
}

func (that *botService) Reset() {
	that.searcher.Reset()
}

func (that *botService) cachedMove(ctx context.Context, board *entity.Board) (entity.Move, bool) {
	log := that.logger.With("method", "cachedMove")

	decision, err := that.decisionRepo.GetByKey(ctx, board.Size(), that.mark.String(), board.Key())
	if errors.Is(err, repository.ErrDecisionNotFound) {
		return entity.Move{}, false
	}

	if err != nil {
		log.Warn("failed to get cached decision", "error", err)
		return entity.Move{}, false
	}

	move := decision.Move
	if !board.InRange(move.Row, move.Col) || board.At(move.Row, move.Col) != entity.Empty {
		log.Warn("ignoring stale cached decision", "move", move.String())
		return entity.Move{}, false
	}

	log.Debug("cached decision found", "move", move.String(), "score", decision.Score)

	return move, true
}

func (that *botService) storeDecision(ctx context.Context, decision *entity.Decision) {
	log := that.logger.With("method", "storeDecision")

	if err := that.decisionRepo.CreateOrUpdate(ctx, decision); err != nil {
		log.Error("failed to store decision", "error", err)
	}
}
