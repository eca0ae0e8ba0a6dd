package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"cartel47-backend/internal/catalog"
	"cartel47-backend/internal/models"
	"cartel47-backend/internal/services"
)

// Rolls under nonce "audit-nonce" for the seeds used across these tests.
const (
	auditNonce = "audit-nonce"
	seedRoll42 = "seed-66"
	seedRoll99 = "seed-45"
	seedRoll0  = "seed-4"
	seedRoll96 = "seed-51"
)

var houseEdge = decimal.RequireFromString("0.03")

func testGames() *catalog.Catalog {
	return catalog.New(
		catalog.Game{
			ID:         "med",
			Name:       "Medium",
			Category:   catalog.CategoryOriginal,
			RTP:        decimal.RequireFromString("0.96"),
			Volatility: catalog.VolatilityMedium,
			MinBet:     decimal.NewFromInt(1),
			MaxBet:     decimal.NewFromInt(1000),
		},
		catalog.Game{
			ID:         "full",
			Name:       "Full",
			Category:   catalog.CategoryOriginal,
			RTP:        decimal.NewFromInt(1),
			Volatility: catalog.VolatilityHigh,
			MinBet:     decimal.NewFromInt(1),
			MaxBet:     decimal.NewFromInt(1000),
		},
	)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pendingBet(id, userID, gameID, amount, seed string, createdAt time.Time) *models.Bet {
	return &models.Bet{
		ID:         id,
		UserID:     userID,
		GameID:     gameID,
		BetAmount:  dec(amount),
		Nonce:      auditNonce,
		ClientSeed: seed,
		Status:     models.BetStatusPending,
		CreatedAt:  createdAt,
	}
}

func seedBet(t *testing.T, store services.BetStore, bet *models.Bet) {
	t.Helper()
	require.NoError(t, store.CreateBet(context.Background(), bet))
}

// spyNonces wraps a NonceRegistry and counts calls.
type spyNonces struct {
	mu       sync.Mutex
	registry *services.NonceRegistry
	issued   int
	consumed int
}

func newSpyNonces() *spyNonces {
	return &spyNonces{registry: services.NewNonceRegistry(time.Minute)}
}

func (s *spyNonces) Issue() (models.Nonce, error) {
	s.mu.Lock()
	s.issued++
	s.mu.Unlock()
	return s.registry.Issue()
}

func (s *spyNonces) Consume(value string) bool {
	s.mu.Lock()
	s.consumed++
	s.mu.Unlock()
	return s.registry.Consume(value)
}

func (s *spyNonces) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued + s.consumed
}

type spyBroadcaster struct {
	mu     sync.Mutex
	events []*models.Bet
}

func (b *spyBroadcaster) BroadcastBetSettled(bet *models.Bet, _ models.ProofBundle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, bet)
}
