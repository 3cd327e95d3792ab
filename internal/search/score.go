package search

import "math"

// Inf bounds every reachable score and opens a full alpha-beta window.
const Inf = math.MaxInt32

const baseWinScore = 10

// WinScore is the score of a win found at the search root. On boards with more than
// nine cells it grows to N²+1 so that a win on the last possible ply still outranks
// a draw.
func WinScore(size int) int {
	if cells := size * size; cells >= baseWinScore {
		return cells + 1
	}

	return baseWinScore
}

// toRelative rewrites a score seen at depth as if the position were the search root.
// Wins keep their distance from the position, not from the root.
func toRelative(score, depth int) int {
	switch {
	case score < 0:
		return score - depth
	case score > 0:
		return score + depth
	default:
		return 0
	}
}

func fromRelative(score, depth int) int {
	switch {
	case score < 0:
		return score + depth
	case score > 0:
		return score - depth
	default:
		return 0
	}
}
