package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"cartel47-backend/internal/config"
	"cartel47-backend/internal/errs"
	"cartel47-backend/internal/models"
	"cartel47-backend/internal/services"
)

func setupTestRedis(t *testing.T) (*services.RedisService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	cfg := &config.Config{
		RedisURL:  mr.Addr(),
		RedisPass: "",
		RedisDB:   0,
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to test redis: %v", err)
	}
	t.Cleanup(func() { redisService.Close() })

	return redisService, mr
}

func TestRedisService(t *testing.T) {
	redisService, _ := setupTestRedis(t)
	ctx := context.Background()

	userID := "redis-test-" + models.GenerateBetID()
	bet := pendingBet(models.GenerateBetID(), userID, "med", "100", seedRoll42, time.Now().UTC())

	if err := redisService.CreateBet(ctx, bet); err != nil {
		t.Fatalf("Failed to create bet: %v", err)
	}

	if err := redisService.CreateBet(ctx, bet); !errs.Is(err, errs.KindConflict) {
		t.Errorf("Expected conflict on duplicate bet, got %v", err)
	}

	retrieved, err := redisService.GetBet(ctx, bet.ID)
	if err != nil {
		t.Fatalf("Failed to get bet: %v", err)
	}
	if retrieved.Status != models.BetStatusPending {
		t.Errorf("Expected PENDING, got %s", retrieved.Status)
	}
	if !retrieved.BetAmount.Equal(bet.BetAmount) {
		t.Errorf("Bet amount mismatch: expected %s, got %s", bet.BetAmount, retrieved.BetAmount)
	}

	engine := newEngine(redisService)

	settled, s, err := engine.Settle(ctx, bet.ID, userID)
	if err != nil {
		t.Fatalf("Failed to settle bet: %v", err)
	}
	if s.Roll != 42 || settled.Outcome == nil || *settled.Outcome != models.OutcomeWin {
		t.Errorf("Expected roll 42 and WIN, got %d and %v", s.Roll, settled.Outcome)
	}
	if settled.WinAmount == nil || !settled.WinAmount.Equal(dec("194")) {
		t.Errorf("Expected win amount 194, got %v", settled.WinAmount)
	}
	if settled.SettledAt == nil || !settled.SettledAt.Equal(s.SettledAt) {
		t.Errorf("Expected settled_at %v, got %v", s.SettledAt, settled.SettledAt)
	}

	if _, _, err := engine.Settle(ctx, bet.ID, userID); !errs.Is(err, errs.KindConflict) {
		t.Errorf("Expected conflict on second settle, got %v", err)
	}

	// A direct store write against a settled bet hits the script's status check.
	if _, err := redisService.SettleBet(ctx, bet.ID, s); !errs.Is(err, errs.KindConflict) {
		t.Errorf("Expected conflict from the store, got %v", err)
	}

	pending := models.BetStatusPending
	bets, total, err := redisService.ListBets(ctx, models.BetQuery{UserID: userID, Status: &pending})
	if err != nil {
		t.Fatalf("Failed to list pending bets: %v", err)
	}
	if total != 0 || len(bets) != 0 {
		t.Errorf("Expected no pending bets, got %d", total)
	}

	bets, total, err = redisService.ListBets(ctx, models.BetQuery{UserID: userID})
	if err != nil {
		t.Fatalf("Failed to list bets: %v", err)
	}
	if total != 1 || len(bets) != 1 || bets[0].Status != models.BetStatusSettled {
		t.Errorf("Expected one settled bet, got %d", total)
	}

	if _, err := redisService.SettleBet(ctx, "missing-"+bet.ID, s); !errs.Is(err, errs.KindNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestRedisCreateBetIndexesOnce(t *testing.T) {
	redisService, mr := setupTestRedis(t)
	ctx := context.Background()

	bet := pendingBet("bet-1", "alice", "med", "10", seedRoll42, time.Now().UTC())
	if err := redisService.CreateBet(ctx, bet); err != nil {
		t.Fatalf("Failed to create bet: %v", err)
	}

	members, err := mr.ZMembers("user:alice:bets:PENDING")
	if err != nil {
		t.Fatalf("Failed to read pending index: %v", err)
	}
	if len(members) != 1 || members[0] != "bet-1" {
		t.Errorf("Expected bet-1 in the pending index, got %v", members)
	}

	dup := pendingBet("bet-1", "alice", "med", "10", seedRoll42, time.Now().UTC().Add(time.Hour))
	if err := redisService.CreateBet(ctx, dup); !errs.Is(err, errs.KindConflict) {
		t.Fatalf("Expected conflict on duplicate bet, got %v", err)
	}

	score, err := mr.ZScore("user:alice:bets", "bet-1")
	if err != nil {
		t.Fatalf("Failed to read bet score: %v", err)
	}
	if score != float64(bet.CreatedAt.UnixMilli()) {
		t.Errorf("Duplicate create moved the index entry: score %v", score)
	}
}

func TestRedisConcurrentSettle(t *testing.T) {
	redisService, _ := setupTestRedis(t)
	ctx := context.Background()

	userID := "redis-race-" + models.GenerateBetID()
	bet := pendingBet(models.GenerateBetID(), userID, "med", "10", seedRoll99, time.Now().UTC())
	if err := redisService.CreateBet(ctx, bet); err != nil {
		t.Fatalf("Failed to create bet: %v", err)
	}

	engine := newEngine(redisService)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := engine.Settle(ctx, bet.ID, userID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errs.Is(err, errs.KindConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("Expected exactly one successful settle, got %d", successes)
	}
	if conflicts != workers-1 {
		t.Errorf("Expected %d conflicts, got %d (other errors: %v)", workers-1, conflicts, others)
	}

	stored, err := redisService.GetBet(ctx, bet.ID)
	if err != nil {
		t.Fatalf("Failed to get bet: %v", err)
	}
	if stored.Status != models.BetStatusSettled || stored.Outcome == nil || *stored.Outcome != models.OutcomeLoss {
		t.Errorf("Expected a settled loss, got %s %v", stored.Status, stored.Outcome)
	}
}

func TestRedisRateLimit(t *testing.T) {
	redisService, mr := setupTestRedis(t)
	ctx := context.Background()

	userID := "redis-limit-" + models.GenerateBetID()
	defer redisService.ClearRateLimit(ctx, userID, "bet")

	limiter := services.NewRedisRateLimiter(redisService, 5)

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, userID, "bet")
		if err != nil {
			t.Fatalf("Failed to check rate limit: %v", err)
		}
		if !allowed {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	allowed, err := limiter.Allow(ctx, userID, "bet")
	if err != nil {
		t.Fatalf("Failed to check rate limit: %v", err)
	}
	if allowed {
		t.Error("Sixth request should be rate limited")
	}

	mr.FastForward(services.RateLimitWindow + time.Second)

	allowed, err = limiter.Allow(ctx, userID, "bet")
	if err != nil {
		t.Fatalf("Failed to check rate limit: %v", err)
	}
	if !allowed {
		t.Error("Request after the window should be allowed")
	}
}
