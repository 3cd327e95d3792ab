package search

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

type bound uint8

const (
	boundExact bound = iota
	boundLower
	boundUpper
)

type memoKey struct {
	board      entity.Key
	maximizing bool
}

type memoEntry struct {
	score int // relative to the stored position
	flag  bound
}

// memo maps evaluated positions to their scores. A score found inside the alpha-beta
// window is exact; one that failed high or low is kept as a lower or upper bound.
type memo struct {
	entries map[memoKey]memoEntry
	limit   int
}

func newMemo(limit int) *memo {
	return &memo{
		entries: make(map[memoKey]memoEntry),
		limit:   limit,
	}
}

func (that *memo) probe(key memoKey) (memoEntry, bool) {
	entry, ok := that.entries[key]
	return entry, ok
}

func (that *memo) store(key memoKey, entry memoEntry) {
	if that.limit > 0 && len(that.entries) >= that.limit {
		if _, ok := that.entries[key]; !ok {
			clear(that.entries)
		}
	}

	that.entries[key] = entry
}

func (that *memo) size() int {
	return len(that.entries)
}

func (that *memo) reset() {
	clear(that.entries)
}

// classify tells what a fail-soft result says about the true value of a position
// searched with the window (alpha, beta).
func classify(score, alpha, beta int) bound {
	switch {
	case score <= alpha:
		return boundUpper
	case score >= beta:
		return boundLower
	default:
		return boundExact
	}
}
