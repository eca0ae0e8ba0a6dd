package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cartel47-backend/internal/config"
	"cartel47-backend/internal/errs"
	"cartel47-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Script status replies.
const (
	replyOK       = "OK"
	replyNotFound = "NOT_FOUND"
	replyConflict = "CONFLICT"
)

// RedisService is the Redis BetStore. It also backs the fixed-window bet
// rate limit.
type RedisService struct {
	client *redis.Client
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Ping(ctx).Result()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &RedisService{client: client}, nil
}

func (s *RedisService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

// createBetScript writes the record and both index entries together, so a
// stored bet is always listable.
var createBetScript = redis.NewScript(`
	local key = KEYS[1]
	local all = KEYS[2]
	local byState = KEYS[3]

	local ttl = tonumber(ARGV[4])
	local ok
	if ttl > 0 then
		ok = redis.call("SET", key, ARGV[1], "NX", "PX", ttl)
	else
		ok = redis.call("SET", key, ARGV[1], "NX")
	end
	if not ok then
		return "CONFLICT"
	end

	redis.call("ZADD", all, ARGV[2], ARGV[3])
	redis.call("ZADD", byState, ARGV[2], ARGV[3])

	return "OK"
`)

func (s *RedisService) CreateBet(ctx context.Context, bet *models.Bet) error {
	const op = "services.RedisService.CreateBet"

	data, err := json.Marshal(bet)
	if err != nil {
		return errs.Internal(op, fmt.Errorf("failed to marshal bet: %v", err))
	}

	keys := []string{
		fmt.Sprintf(KeyBet, bet.ID),
		fmt.Sprintf(KeyUserBets, bet.UserID),
		fmt.Sprintf(KeyUserBetsByState, bet.UserID, bet.Status),
	}

	reply, err := createBetScript.Run(ctx, s.client, keys,
		string(data),
		betScore(bet.CreatedAt),
		bet.ID,
		TTLBet.Milliseconds(),
	).Text()
	if err != nil {
		return errs.Internal(op, fmt.Errorf("failed to save bet: %v", err))
	}
	if reply == replyConflict {
		return errs.Conflict(op, "bet already exists")
	}

	return nil
}

func (s *RedisService) GetBet(ctx context.Context, id string) (*models.Bet, error) {
	const op = "services.RedisService.GetBet"

	data, err := s.client.Get(ctx, fmt.Sprintf(KeyBet, id)).Result()
	if err == redis.Nil {
		return nil, errs.NotFound(op, "bet not found")
	}
	if err != nil {
		return nil, errs.Internal(op, fmt.Errorf("failed to get bet: %v", err))
	}

	var bet models.Bet
	if err := json.Unmarshal([]byte(data), &bet); err != nil {
		return nil, errs.Internal(op, fmt.Errorf("failed to unmarshal bet: %v", err))
	}

	return &bet, nil
}

// settleBetScript is the compare-and-set for settlement: the status check,
// the field writes and the index move happen in one server-side step. It
// replies {status} or {"OK", record}.
var settleBetScript = redis.NewScript(`
	local key = KEYS[1]
	local pending = KEYS[2]
	local settled = KEYS[3]

	local data = redis.call("GET", key)
	if not data then
		return {"NOT_FOUND"}
	end

	local bet = cjson.decode(data)

	if bet.status ~= "PENDING" then
		return {"CONFLICT"}
	end

	bet.status = "SETTLED"
	bet.outcome = ARGV[1]
	bet.win_amount = ARGV[2]
	bet.settled_at = ARGV[3]

	local updated = cjson.encode(bet)
	redis.call("SET", key, updated, "KEEPTTL")

	local score = redis.call("ZSCORE", pending, bet.bet_id)
	if score then
		redis.call("ZREM", pending, bet.bet_id)
		redis.call("ZADD", settled, score, bet.bet_id)
	end

	return {"OK", updated}
`)

func (s *RedisService) SettleBet(ctx context.Context, id string, settlement models.Settlement) (*models.Bet, error) {
	const op = "services.RedisService.SettleBet"

	// The owner never changes, so reading it ahead of the script is safe.
	current, err := s.GetBet(ctx, id)
	if err != nil {
		return nil, err
	}

	keys := []string{
		fmt.Sprintf(KeyBet, id),
		fmt.Sprintf(KeyUserBetsByState, current.UserID, models.BetStatusPending),
		fmt.Sprintf(KeyUserBetsByState, current.UserID, models.BetStatusSettled),
	}

	settledAt, err := settlement.SettledAt.MarshalText()
	if err != nil {
		return nil, errs.Internal(op, err)
	}

	reply, err := settleBetScript.Run(ctx, s.client, keys,
		string(settlement.Outcome),
		settlement.WinAmount.String(),
		string(settledAt),
	).StringSlice()
	if err != nil {
		return nil, errs.Internal(op, fmt.Errorf("failed to settle bet: %v", err))
	}
	if len(reply) == 0 {
		return nil, errs.Internal(op, fmt.Errorf("empty settle reply"))
	}

	switch reply[0] {
	case replyOK:
	case replyNotFound:
		return nil, errs.NotFound(op, "bet not found")
	case replyConflict:
		return nil, errs.Conflict(op, "bet is already settled")
	default:
		return nil, errs.Internal(op, fmt.Errorf("unexpected settle reply %q", reply[0]))
	}
	if len(reply) < 2 {
		return nil, errs.Internal(op, fmt.Errorf("settle reply is missing the record"))
	}

	var bet models.Bet
	if err := json.Unmarshal([]byte(reply[1]), &bet); err != nil {
		return nil, errs.Internal(op, fmt.Errorf("failed to unmarshal bet: %v", err))
	}

	return &bet, nil
}

func (s *RedisService) ListBets(ctx context.Context, q models.BetQuery) ([]*models.Bet, int64, error) {
	const op = "services.RedisService.ListBets"

	q = q.Normalize()

	key := fmt.Sprintf(KeyUserBets, q.UserID)
	if q.Status != nil {
		key = fmt.Sprintf(KeyUserBetsByState, q.UserID, *q.Status)
	}

	total, err := s.client.ZCard(ctx, key).Result()
	if err != nil {
		return nil, 0, errs.Internal(op, fmt.Errorf("failed to count bets: %v", err))
	}

	ids, err := s.client.ZRevRange(ctx, key, int64(q.Offset), int64(q.Offset+q.Limit-1)).Result()
	if err != nil {
		return nil, 0, errs.Internal(op, fmt.Errorf("failed to get bet IDs: %v", err))
	}

	bets, err := s.bulkGetBets(ctx, ids)
	if err != nil {
		return nil, 0, errs.Internal(op, err)
	}

	return bets, total, nil
}

func (s *RedisService) bulkGetBets(ctx context.Context, ids []string) ([]*models.Bet, error) {
	if len(ids) == 0 {
		return []*models.Bet{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))

	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, fmt.Sprintf(KeyBet, id))
	}

	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("pipeline execution failed: %v", err)
	}

	bets := make([]*models.Bet, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			continue
		}

		var bet models.Bet
		if err := json.Unmarshal([]byte(data), &bet); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bet: %v", err)
		}

		bets = append(bets, &bet)
	}

	return bets, nil
}

// CheckRateLimit counts action for userID in a fixed window and reports
// whether the caller is still within limit.
func (s *RedisService) CheckRateLimit(ctx context.Context, userID, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, userID, action)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}

	if count == 1 {
		s.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

func (s *RedisService) ClearRateLimit(ctx context.Context, userID, action string) error {
	return s.client.Del(ctx, fmt.Sprintf(KeyRateLimit, userID, action)).Err()
}

func betScore(t time.Time) float64 {
	return float64(t.UnixMilli())
}
