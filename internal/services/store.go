package services

import (
	"context"

	"cartel47-backend/internal/models"
)

// BetStore persists bets. SettleBet must be a single conditional write: it
// applies the settlement only if the bet is still PENDING, and otherwise
// returns a CONFLICT error (or NOT_FOUND) leaving the record untouched.
type BetStore interface {
	CreateBet(ctx context.Context, bet *models.Bet) error
	GetBet(ctx context.Context, id string) (*models.Bet, error)
	SettleBet(ctx context.Context, id string, s models.Settlement) (*models.Bet, error)
	ListBets(ctx context.Context, q models.BetQuery) ([]*models.Bet, int64, error)
	Ping(ctx context.Context) error
}
