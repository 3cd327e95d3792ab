package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
)

var errRedisDown = errors.New("redis down")

type mockDecisionRepo struct {
	mock.Mock
}

func (that *mockDecisionRepo) CreateOrUpdate(ctx context.Context, decision *entity.Decision) error {
	args := that.Called(ctx, decision)
	return args.Error(0)
}

func (that *mockDecisionRepo) GetByKey(ctx context.Context, size int, player string, board entity.Key) (*entity.Decision, error) {
	args := that.Called(ctx, size, player, board)

	decision, _ := args.Get(0).(*entity.Decision)
	return decision, args.Error(1)
}

type mockSearcher struct {
	mock.Mock
}

func (that *mockSearcher) Decide(board *entity.Board, player entity.Cell) (entity.Decision, bool) {
	args := that.Called(board, player)
	return args.Get(0).(entity.Decision), args.Bool(1)
}

func (that *mockSearcher) Reset() {
	that.Called()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func ongoingGame(t *testing.T, board string, turn entity.Cell) *entity.Game {
	t.Helper()

	parsed, err := entity.ParseBoard(board)
	require.NoError(t, err)

	return &entity.Game{Board: parsed, Turn: turn, Status: entity.StatusOngoing}
}

func TestBotService_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Searches and stores the decision on a cache miss", func(t *testing.T) {
		// Given: an empty cache and a searcher choosing the center
		repo := &mockDecisionRepo{}
		searcher := &mockSearcher{}
		bot := NewBotService(discardLogger(), searcher, repo, entity.O)
		game := ongoingGame(t, "X../.../...", entity.O)
		key := game.Board.Key()

		decision := entity.Decision{Size: 3, Board: key, Player: "O", Move: entity.Move{Row: 1, Col: 1}}
		repo.On("GetByKey", mock.Anything, 3, "O", key).Return(nil, repository.ErrDecisionNotFound).Once()
		searcher.On("Decide", game.Board, entity.O).Return(decision, true).Once()
		repo.On("CreateOrUpdate", mock.Anything, &decision).Return(nil).Once()

		// When: the bot makes its turn
		move, err := bot.MakeTurn(ctx, game)

		// Then: the searched move is played and cached
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 1, Col: 1}, move)
		assert.Equal(t, entity.O, game.Board.At(1, 1))
		assert.Equal(t, entity.X, game.Turn)
		repo.AssertExpectations(t)
		searcher.AssertExpectations(t)
	})

	t.Run("Plays the cached move without searching", func(t *testing.T) {
		// Given: a cached decision for the position
		repo := &mockDecisionRepo{}
		searcher := &mockSearcher{}
		bot := NewBotService(discardLogger(), searcher, repo, entity.O)
		game := ongoingGame(t, "X../.../...", entity.O)

		cached := &entity.Decision{Size: 3, Board: game.Board.Key(), Player: "O", Move: entity.Move{Row: 1, Col: 1}}
		repo.On("GetByKey", mock.Anything, 3, "O", game.Board.Key()).Return(cached, nil).Once()

		// When: the bot makes its turn
		move, err := bot.MakeTurn(ctx, game)

		// Then: the cached move is played and the searcher is never asked
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 1, Col: 1}, move)
		searcher.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("Ignores a cached move on an occupied cell", func(t *testing.T) {
		// Given: a cached decision pointing at X's cell
		repo := &mockDecisionRepo{}
		searcher := &mockSearcher{}
		bot := NewBotService(discardLogger(), searcher, repo, entity.O)
		game := ongoingGame(t, "X../.../...", entity.O)
		key := game.Board.Key()

		stale := &entity.Decision{Size: 3, Board: key, Player: "O", Move: entity.Move{Row: 0, Col: 0}}
		decision := entity.Decision{Size: 3, Board: key, Player: "O", Move: entity.Move{Row: 1, Col: 1}}
		repo.On("GetByKey", mock.Anything, 3, "O", key).Return(stale, nil).Once()
		searcher.On("Decide", game.Board, entity.O).Return(decision, true).Once()
		repo.On("CreateOrUpdate", mock.Anything, &decision).Return(nil).Once()

		// When: the bot makes its turn
		move, err := bot.MakeTurn(ctx, game)

		// Then: the searched move is played instead
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 1, Col: 1}, move)
		searcher.AssertExpectations(t)
	})

	t.Run("Falls back to search when the cache fails", func(t *testing.T) {
		// Given: a cache that is down for reads and writes
		repo := &mockDecisionRepo{}
		searcher := &mockSearcher{}
		bot := NewBotService(discardLogger(), searcher, repo, entity.O)
		game := ongoingGame(t, "X../.../...", entity.O)
		key := game.Board.Key()

		decision := entity.Decision{Size: 3, Board: key, Player: "O", Move: entity.Move{Row: 1, Col: 1}}
		repo.On("GetByKey", mock.Anything, 3, "O", key).Return(nil, errRedisDown).Once()
		searcher.On("Decide", game.Board, entity.O).Return(decision, true).Once()
		repo.On("CreateOrUpdate", mock.Anything, &decision).Return(errRedisDown).Once()

		// When: the bot makes its turn
		move, err := bot.MakeTurn(ctx, game)

		// Then: the move is still played
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 1, Col: 1}, move)
		assert.Equal(t, entity.O, game.Board.At(1, 1))
	})

	t.Run("Returns ErrNotYourTurn when it is X's turn", func(t *testing.T) {
		// Given: a game waiting for X
		bot := NewBotService(discardLogger(), &mockSearcher{}, &mockDecisionRepo{}, entity.O)
		game := ongoingGame(t, ".../.../...", entity.X)

		// When: the bot tries to move
		_, err := bot.MakeTurn(ctx, game)

		// Then: ErrNotYourTurn is returned
		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Returns ErrGameFinished for a finished game", func(t *testing.T) {
		// Given: a finished game
		bot := NewBotService(discardLogger(), &mockSearcher{}, &mockDecisionRepo{}, entity.O)
		game := ongoingGame(t, "XXX/OO./...", entity.O)
		game.Status = entity.StatusFinished

		// When: the bot tries to move
		_, err := bot.MakeTurn(ctx, game)

		// Then: ErrGameFinished is returned
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Blocks an immediate threat with the real searcher", func(t *testing.T) {
		// Given: X threatens the top row and there is no cache
		searcher := search.New(discardLogger(), search.DefaultOptions())
		bot := NewBotService(discardLogger(), searcher, repository.NewNoopDecisionRepository(), entity.O)
		game := ongoingGame(t, "XX./.O./...", entity.O)

		// When: the bot makes its turn
		move, err := bot.MakeTurn(ctx, game)

		// Then: it blocks at (0, 2)
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 0, Col: 2}, move)
		assert.Equal(t, entity.X, game.Turn)
	})
}

func TestBotService_Reset(t *testing.T) {
	// Given: a bot with a mocked searcher
	searcher := &mockSearcher{}
	searcher.On("Reset").Return().Once()
	bot := NewBotService(discardLogger(), searcher, &mockDecisionRepo{}, entity.O)

	// When: the bot is reset
	bot.Reset()

	// Then: the searcher memo is reset
	searcher.AssertExpectations(t)
}
