package search

import (
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type Options struct {
	// Memo enables position memoization. Without it the search is plain alpha-beta.
	Memo bool
	// MemoLimit caps the number of memoized positions; the memo is cleared when full.
	// Zero means unbounded.
	MemoLimit int
}

func DefaultOptions() Options {
	return Options{Memo: true}
}

type Stats struct {
	Nodes       int
	MemoHits    int
	Cutoffs     int
	MemoEntries int
	Elapsed     time.Duration
}

// Searcher finds optimal moves by exhaustive minimax with alpha-beta pruning.
// O maximizes the score and X minimizes it.
//
// Memoized scores are stored relative to the memoized position together with their
// alpha-beta bound, so a position reached again at another depth or inside another
// window evaluates to exactly what an unmemoized search returns.
//
// A Searcher mutates the board it is given during a call and restores it before
// returning. It is not safe for concurrent use.
type Searcher struct {
	logger *slog.Logger
	memo   *memo
	stats  Stats
}

func New(logger *slog.Logger, opts Options) *Searcher {
	searcher := &Searcher{
		logger: logger.With("component", "searcher"),
	}

	if opts.Memo {
		searcher.memo = newMemo(opts.MemoLimit)
	}

	return searcher
}

// BestMove returns the best move for O, or false when the board is full.
func (that *Searcher) BestMove(board *entity.Board) (entity.Move, bool) {
	decision, ok := that.Decide(board, entity.O)
	return decision.Move, ok
}

// Decide searches every empty cell in row-major order and keeps the first one with the
// best score for player. Each candidate is evaluated with a fresh window from depth 0.
// It reports false when the board is full or player is not X or O.
func (that *Searcher) Decide(board *entity.Board, player entity.Cell) (entity.Decision, bool) {
	log := that.logger.With("method", "Decide")

	that.stats = Stats{}
	if !player.IsPlayer() {
		return entity.Decision{}, false
	}

	started := time.Now()

	maximizing := player == entity.O
	bestScore := Inf
	if maximizing {
		bestScore = -Inf
	}

	var (
		bestMove entity.Move
		found    bool
	)

	for _, move := range board.Moves() {
		var score int
		board.Try(move, player, func() {
			score = that.Evaluate(board, 0, -Inf, Inf, !maximizing)
		})

		if (maximizing && score > bestScore) || (!maximizing && score < bestScore) {
			bestScore = score
			bestMove = move
			found = true
		}
	}

	that.stats.Elapsed = time.Since(started)
	if that.memo != nil {
		that.stats.MemoEntries = that.memo.size()
	}

	if !found {
		return entity.Decision{}, false
	}

	log.Debug("search finished",
		"size", board.Size(),
		"player", player.String(),
		"move", bestMove.String(),
		"score", bestScore,
		"nodes", that.stats.Nodes,
		"memo_hits", that.stats.MemoHits,
		"cutoffs", that.stats.Cutoffs,
		"memo_entries", that.stats.MemoEntries,
		"elapsed", that.stats.Elapsed,
	)

	return entity.Decision{
		Size:   board.Size(),
		Board:  board.Key(),
		Player: player.String(),
		Move:   bestMove,
		Score:  bestScore,
	}, true
}

// Evaluate returns the minimax value of board at depth plies below the root.
// maximizing means O is to move.
func (that *Searcher) Evaluate(board *entity.Board, depth, alpha, beta int, maximizing bool) int {
	that.stats.Nodes++

	key := memoKey{board: board.Key(), maximizing: maximizing}

	if that.memo != nil {
		if entry, ok := that.memo.probe(key); ok {
			score := fromRelative(entry.score, depth)

			switch {
			case entry.flag == boundExact,
				entry.flag == boundLower && score >= beta,
				entry.flag == boundUpper && score <= alpha:
				that.stats.MemoHits++
				return score
			}
		}
	}

	win := WinScore(board.Size())

	switch {
	case board.IsWinner(entity.X):
		return -win + depth
	case board.IsWinner(entity.O):
		return win - depth
	case board.IsFull():
		return 0
	}

	alphaAtEntry, betaAtEntry := alpha, beta

	mover := entity.X
	best := Inf
	if maximizing {
		mover = entity.O
		best = -Inf
	}

	for _, move := range board.Moves() {
		var score int
		board.Try(move, mover, func() {
			score = that.Evaluate(board, depth+1, alpha, beta, !maximizing)
		})

		if maximizing {
			best = max(best, score)
			alpha = max(alpha, score)
		} else {
			best = min(best, score)
			beta = min(beta, score)
		}

		if beta <= alpha {
			that.stats.Cutoffs++
			break
		}
	}

	if that.memo != nil {
		that.memo.store(key, memoEntry{
			score: toRelative(best, depth),
			flag:  classify(best, alphaAtEntry, betaAtEntry),
		})
	}

	return best
}

// Score is the value of board with a full window at the root.
func (that *Searcher) Score(board *entity.Board, maximizing bool) int {
	return that.Evaluate(board, 0, -Inf, Inf, maximizing)
}

// Stats describes the last Decide call.
func (that *Searcher) Stats() Stats {
	return that.stats
}

// Reset forgets every memoized position. Call it when a new game starts.
func (that *Searcher) Reset() {
	if that.memo != nil {
		that.memo.reset()
	}

	that.stats = Stats{}
}
