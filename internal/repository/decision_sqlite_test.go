package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
)

type SQLDecisionRepositorySuite struct {
	suite.Suite

	db   *storage.SQLite
	repo DecisionRepository
	ctx  context.Context
}

func TestSQLDecisionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SQLDecisionRepositorySuite))
}

func (s *SQLDecisionRepositorySuite) SetupTest() {
	s.ctx = context.Background()

	db, err := storage.NewSQLite(s.ctx, filepath.Join(s.T().TempDir(), "decisions.db"))
	s.Require().NoError(err)
	s.Require().NoError(db.Init(s.ctx))

	s.db = db
	s.repo = NewSQLDecisionRepository(db.Connection)
}

func (s *SQLDecisionRepositorySuite) TearDownTest() {
	_ = s.db.Close()
}

func (s *SQLDecisionRepositorySuite) TestCreateOrUpdateAndGet() {
	// Given: a stored decision
	decision := sampleDecision()
	decision.Score = -3
	s.Require().NoError(s.repo.CreateOrUpdate(s.ctx, decision))

	// When: reading it back
	got, err := s.repo.GetByKey(s.ctx, 3, "O", decision.Board)

	// Then: it matches what was stored
	s.Require().NoError(err)
	s.Equal(decision, got)
}

func (s *SQLDecisionRepositorySuite) TestCreateOrUpdateOverwrites() {
	// Given: a stored decision
	decision := sampleDecision()
	s.Require().NoError(s.repo.CreateOrUpdate(s.ctx, decision))

	// When: the same position is stored with another move
	decision.Move = entity.Move{Row: 2, Col: 2}
	s.Require().NoError(s.repo.CreateOrUpdate(s.ctx, decision))

	// Then: the latest move is returned
	got, err := s.repo.GetByKey(s.ctx, 3, "O", decision.Board)
	s.Require().NoError(err)
	s.Equal(entity.Move{Row: 2, Col: 2}, got.Move)
}

func (s *SQLDecisionRepositorySuite) TestGetByKeyNotFound() {
	// Given: a decision stored for O on a 3x3 board
	s.Require().NoError(s.repo.CreateOrUpdate(s.ctx, sampleDecision()))

	// Then: other players, sizes and positions are not found
	_, err := s.repo.GetByKey(s.ctx, 3, "X", entity.Key("XX..O...."))
	s.ErrorIs(err, ErrDecisionNotFound)

	_, err = s.repo.GetByKey(s.ctx, 4, "O", entity.Key("XX..O...."))
	s.ErrorIs(err, ErrDecisionNotFound)

	_, err = s.repo.GetByKey(s.ctx, 3, "O", entity.Key("........."))
	s.ErrorIs(err, ErrDecisionNotFound)
}

func (s *SQLDecisionRepositorySuite) TestDeleteByKey() {
	// Given: a stored decision
	decision := sampleDecision()
	s.Require().NoError(s.repo.CreateOrUpdate(s.ctx, decision))

	// When: deleting it
	err := s.repo.DeleteByKey(s.ctx, 3, "O", decision.Board)

	// Then: it is gone and a second delete reports not found
	s.Require().NoError(err)
	_, err = s.repo.GetByKey(s.ctx, 3, "O", decision.Board)
	s.ErrorIs(err, ErrDecisionNotFound)
	s.ErrorIs(s.repo.DeleteByKey(s.ctx, 3, "O", decision.Board), ErrDecisionNotFound)
}

func (s *SQLDecisionRepositorySuite) TestClosedDatabase() {
	// Given: a closed database
	s.Require().NoError(s.db.Close())

	// When: storing a decision
	err := s.repo.CreateOrUpdate(s.ctx, sampleDecision())

	// Then: the error is reported
	s.Error(err)
}
