package services

import (
	"context"
	"sort"
	"sync"

	"cartel47-backend/internal/errs"
	"cartel47-backend/internal/models"
)

// MemoryStore is a process-local BetStore. The mutex makes SettleBet's
// status check and write one step.
type MemoryStore struct {
	mu     sync.RWMutex
	bets   map[string]*models.Bet
	byUser map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bets:   make(map[string]*models.Bet),
		byUser: make(map[string][]string),
	}
}

func (s *MemoryStore) CreateBet(_ context.Context, bet *models.Bet) error {
	const op = "services.MemoryStore.CreateBet"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bets[bet.ID]; exists {
		return errs.Conflict(op, "bet already exists")
	}

	s.bets[bet.ID] = bet.Clone()
	s.byUser[bet.UserID] = append(s.byUser[bet.UserID], bet.ID)
	return nil
}

func (s *MemoryStore) GetBet(_ context.Context, id string) (*models.Bet, error) {
	const op = "services.MemoryStore.GetBet"

	s.mu.RLock()
	defer s.mu.RUnlock()

	bet, ok := s.bets[id]
	if !ok {
		return nil, errs.NotFound(op, "bet not found")
	}
	return bet.Clone(), nil
}

func (s *MemoryStore) SettleBet(_ context.Context, id string, settlement models.Settlement) (*models.Bet, error) {
	const op = "services.MemoryStore.SettleBet"

	s.mu.Lock()
	defer s.mu.Unlock()

	bet, ok := s.bets[id]
	if !ok {
		return nil, errs.NotFound(op, "bet not found")
	}
	if bet.Status != models.BetStatusPending {
		return nil, errs.Conflict(op, "bet is already settled")
	}

	bet.Apply(settlement)
	return bet.Clone(), nil
}

func (s *MemoryStore) ListBets(_ context.Context, q models.BetQuery) ([]*models.Bet, int64, error) {
	q = q.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Bet
	for _, id := range s.byUser[q.UserID] {
		bet := s.bets[id]
		if q.Status != nil && bet.Status != *q.Status {
			continue
		}
		matched = append(matched, bet)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return []*models.Bet{}, total, nil
	}

	end := q.Offset + q.Limit
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]*models.Bet, 0, end-q.Offset)
	for _, bet := range matched[q.Offset:end] {
		page = append(page, bet.Clone())
	}
	return page, total, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
