package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type sqlDecision struct {
	conn *sql.DB
}

// NewSQLDecisionRepository keeps decisions in the decisions table of conn.
func NewSQLDecisionRepository(conn *sql.DB) DecisionRepository {
	return &sqlDecision{
		conn: conn,
	}
}

func (that *sqlDecision) CreateOrUpdate(ctx context.Context, decision *entity.Decision) error {
	query := `INSERT INTO decisions (size, player, board, move_row, move_col, score) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (size, player, board) DO UPDATE
		SET move_row = excluded.move_row, move_col = excluded.move_col, score = excluded.score`

	_, err := that.conn.ExecContext(ctx, query,
		decision.Size, decision.Player, string(decision.Board), decision.Move.Row, decision.Move.Col, decision.Score)
	if err != nil {
		return fmt.Errorf("can't save decision: %w", err)
	}

	return nil
}

func (that *sqlDecision) GetByKey(ctx context.Context, size int, player string, board entity.Key) (*entity.Decision, error) {
	query := `SELECT move_row, move_col, score FROM decisions WHERE size = ? AND player = ? AND board = ?`

	decision := entity.Decision{Size: size, Player: player, Board: board}

	err := that.conn.QueryRowContext(ctx, query, size, player, string(board)).
		Scan(&decision.Move.Row, &decision.Move.Col, &decision.Score)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDecisionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find decision: %w", err)
	}

	return &decision, nil
}

func (that *sqlDecision) DeleteByKey(ctx context.Context, size int, player string, board entity.Key) error {
	query := `DELETE FROM decisions WHERE size = ? AND player = ? AND board = ?`

	result, err := that.conn.ExecContext(ctx, query, size, player, string(board))
	if err != nil {
		return fmt.Errorf("can't delete decision: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't count deleted decisions: %w", err)
	}

	if deleted == 0 {
		return ErrDecisionNotFound
	}

	return nil
}
