package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/console"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs a console game reading moves from in and printing to out.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	decisionRepo, closeStorage, err := newDecisionRepository(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeStorage()

	searcher := newSearcher(logger, conf)
	bot := service.NewBotService(logger, searcher, decisionRepo, usecase.BotMark)
	gameManager := usecase.NewGameManager(logger, bot)
	session := console.NewSession(logger, gameManager, console.Options{
		Size:    conf.Board.Size,
		AIFirst: conf.Board.AIFirst,
	})

	log.Info("Starting console game", "size", conf.Board.Size, "ai_first", conf.Board.AIFirst)

	if err = session.Run(ctx, in, out); err != nil {
		return fmt.Errorf("console session failed: %w", err)
	}

	log.Info("Console game finished")

	return nil
}

// Analyze prints the best move for player on the board written in boardText.
func Analyze(logger *slog.Logger, conf *config.Config, boardText, player string, out io.Writer) error {
	board, err := entity.ParseBoard(boardText)
	if err != nil {
		return fmt.Errorf("failed to parse board: %w", err)
	}

	mark, err := entity.ParseCell(player)
	if err != nil {
		return fmt.Errorf("failed to parse player: %w", err)
	}

	if winner := board.Winner(); winner != entity.Empty {
		_, err = fmt.Fprintf(out, "%s%s already won\n", board.String(), winner.String())
		return err
	}

	searcher := newSearcher(logger, conf)

	decision, ok := searcher.Decide(board, mark)
	if !ok {
		return fmt.Errorf("%s to move: %w", mark.String(), apperror.ErrNoAvailableMoves)
	}

	stats := searcher.Stats()

	_, err = fmt.Fprintf(out, "%sbest move for %s: %s\nscore: %d\nnodes: %d, memo hits: %d, cutoffs: %d, memo entries: %d, elapsed: %s\n",
		board.String(),
		mark.String(),
		decision.Move.String(),
		decision.Score,
		stats.Nodes,
		stats.MemoHits,
		stats.Cutoffs,
		stats.MemoEntries,
		stats.Elapsed,
	)

	return err
}

func newSearcher(logger *slog.Logger, conf *config.Config) *search.Searcher {
	return search.New(logger, search.Options{
		Memo:      !conf.Search.NoMemo,
		MemoLimit: conf.Search.MemoLimit,
	})
}

// newDecisionRepository picks Redis when enabled, then the SQLite file when configured,
// and a repository that stores nothing otherwise.
func newDecisionRepository(ctx context.Context, logger *slog.Logger, conf *config.Config) (repository.DecisionRepository, func(), error) {
	log := logger.With("method", "newDecisionRepository")

	switch {
	case conf.Redis.Enabled:
		if conf.Redis.Host == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		closeStorage := func() {
			if err := redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}

		log.Info("Caching decisions in redis", "addr", conf.Redis.GetRedisAddr())

		return repository.NewDecisionRepository(redisStorage, conf.Redis.TTL), closeStorage, nil
	case conf.SQLite.Path != "":
		sqliteStorage, err := storage.NewSQLite(ctx, conf.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		closeStorage := func() {
			if err := sqliteStorage.Close(); err != nil {
				log.Error("could not close sqlite storage", "error", err)
			}
		}

		if err = sqliteStorage.Init(ctx); err != nil {
			closeStorage()
			return nil, nil, fmt.Errorf("could not init sqlite storage: %w", err)
		}

		log.Info("Caching decisions in sqlite", "path", conf.SQLite.Path)

		return repository.NewSQLDecisionRepository(sqliteStorage.Connection), closeStorage, nil
	default:
		return repository.NewNoopDecisionRepository(), func() {}, nil
	}
}
