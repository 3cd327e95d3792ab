package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var ErrDecisionNotFound = errors.New("decision not found")

type DecisionRepository interface {
	CreateOrUpdate(ctx context.Context, decision *entity.Decision) error
	GetByKey(ctx context.Context, size int, player string, board entity.Key) (*entity.Decision, error)
	DeleteByKey(ctx context.Context, size int, player string, board entity.Key) error
}

type dbDecision struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDecisionRepository stores searched decisions in Redis. A zero ttl keeps them forever.
func NewDecisionRepository(client *redis.Client, ttl time.Duration) DecisionRepository {
	return &dbDecision{
		client: client,
		ttl:    ttl,
	}
}

func decisionKey(size int, player string, board entity.Key) string {
	return fmt.Sprintf("decision:%d:%s:%s", size, player, board)
}

func (that *dbDecision) CreateOrUpdate(ctx context.Context, decision *entity.Decision) error {
	decisionJSON, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("could not marshal decision: %w", err)
	}

	key := decisionKey(decision.Size, decision.Player, decision.Board)
	if err = that.client.Set(ctx, key, decisionJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set decision: %w", err)
	}

	return nil
}

func (that *dbDecision) GetByKey(ctx context.Context, size int, player string, board entity.Key) (*entity.Decision, error) {
	response, err := that.client.Get(ctx, decisionKey(size, player, board)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrDecisionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get decision: %w", err)
	}

	var existing entity.Decision
	if err = json.Unmarshal([]byte(response), &existing); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decision: %w", err)
	}

	return &existing, nil
}

func (that *dbDecision) DeleteByKey(ctx context.Context, size int, player string, board entity.Key) error {
	deleted, err := that.client.Del(ctx, decisionKey(size, player, board)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete decision: %w", err)
	}

	if deleted == 0 {
		return ErrDecisionNotFound
	}

	return nil
}

type noopDecision struct{}

// NewNoopDecisionRepository never stores anything. It is used when Redis is disabled.
func NewNoopDecisionRepository() DecisionRepository {
	return noopDecision{}
}

func (noopDecision) CreateOrUpdate(context.Context, *entity.Decision) error {
	return nil
}

func (noopDecision) GetByKey(context.Context, int, string, entity.Key) (*entity.Decision, error) {
	return nil, ErrDecisionNotFound
}

func (noopDecision) DeleteByKey(context.Context, int, string, entity.Key) error {
	return ErrDecisionNotFound
}
