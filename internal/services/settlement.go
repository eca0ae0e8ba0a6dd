package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cartel47-backend/internal/catalog"
	"cartel47-backend/internal/errs"
	"cartel47-backend/internal/models"
	"cartel47-backend/internal/rng"
)

// RollModulus is the range of the settlement roll, [0, 100).
const RollModulus = 100

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)

	payoutMultipliers = map[catalog.Volatility]decimal.Decimal{
		catalog.VolatilityLow:    decimal.RequireFromString("1.5"),
		catalog.VolatilityMedium: decimal.RequireFromString("2.0"),
		catalog.VolatilityHigh:   decimal.RequireFromString("3.0"),
	}
)

type GameLookup interface {
	Get(id string) (catalog.Game, bool)
}

func PayoutMultiplier(v catalog.Volatility) (decimal.Decimal, bool) {
	m, ok := payoutMultipliers[v]
	return m, ok
}

// Evaluate settles a roll against a game. The bet wins iff
// roll < rtp*100; with rtp = 1 every roll in [0, 100) wins. A win pays
// betAmount * multiplier * (1 - houseEdge), a loss pays zero. SettledAt is
// left for the caller.
func Evaluate(roll int, game catalog.Game, houseEdge, betAmount decimal.Decimal) (models.Settlement, error) {
	multiplier, ok := PayoutMultiplier(game.Volatility)
	if !ok {
		return models.Settlement{}, fmt.Errorf("game %s has unknown volatility %q", game.ID, game.Volatility)
	}

	threshold := game.RTP.Mul(hundred)
	s := models.Settlement{
		Roll:       roll,
		Threshold:  threshold,
		Outcome:    models.OutcomeLoss,
		Multiplier: multiplier,
		WinAmount:  decimal.Zero,
	}

	if decimal.NewFromInt(int64(roll)).LessThan(threshold) {
		s.Outcome = models.OutcomeWin
		s.WinAmount = betAmount.Mul(multiplier).Mul(one.Sub(houseEdge))
	}

	return s, nil
}

// SettlementEngine owns the PENDING -> SETTLED transition.
type SettlementEngine struct {
	store     BetStore
	games     GameLookup
	houseEdge decimal.Decimal
	now       func() time.Time
	log       *zap.Logger
}

func NewSettlementEngine(store BetStore, games GameLookup, houseEdge decimal.Decimal, log *zap.Logger) *SettlementEngine {
	if log == nil {
		log = zap.NewNop()
	}

	return &SettlementEngine{
		store:     store,
		games:     games,
		houseEdge: houseEdge,
		now:       time.Now,
		log:       log,
	}
}

func (e *SettlementEngine) HouseEdge() decimal.Decimal {
	return e.houseEdge
}

// Compute derives the settlement of bet from its nonce and client seed. It
// reads nothing but its arguments and the game table.
func (e *SettlementEngine) Compute(bet *models.Bet) (models.Settlement, error) {
	const op = "services.SettlementEngine.Compute"

	game, ok := e.games.Get(bet.GameID)
	if !ok {
		return models.Settlement{}, errs.NotFound(op, "game not found")
	}
	if !bet.BetAmount.IsPositive() {
		return models.Settlement{}, errs.Validation(op, "bet amount must be positive")
	}

	roll := rng.DeriveInteger(bet.Nonce, bet.ClientSeed, RollModulus)
	s, err := Evaluate(roll, game, e.houseEdge, bet.BetAmount)
	if err != nil {
		return models.Settlement{}, errs.Internal(op, err)
	}

	return s, nil
}

// Settle moves a pending bet owned by actorID to SETTLED. A bet that is
// already settled, or that another caller settles first, yields CONFLICT
// and is left as it was.
func (e *SettlementEngine) Settle(ctx context.Context, betID, actorID string) (*models.Bet, models.Settlement, error) {
	const op = "services.SettlementEngine.Settle"

	bet, err := e.store.GetBet(ctx, betID)
	if err != nil {
		return nil, models.Settlement{}, err
	}

	if bet.UserID != actorID {
		return nil, models.Settlement{}, errs.Forbidden(op, "bet belongs to another user")
	}

	if bet.Status != models.BetStatusPending {
		return nil, models.Settlement{}, errs.Conflict(op, "bet is already settled")
	}

	s, err := e.Compute(bet)
	if err != nil {
		return nil, models.Settlement{}, err
	}
	s.SettledAt = e.now().UTC()

	settled, err := e.store.SettleBet(ctx, betID, s)
	if err != nil {
		if errs.Is(err, errs.KindConflict) {
			e.log.Info("lost settlement race", zap.String("bet_id", betID))
		}
		return nil, models.Settlement{}, err
	}

	e.log.Info("bet settled",
		zap.String("bet_id", settled.ID),
		zap.String("user_id", settled.UserID),
		zap.String("game_id", settled.GameID),
		zap.Int("roll", s.Roll),
		zap.String("outcome", string(s.Outcome)),
		zap.String("win_amount", s.WinAmount.String()),
	)

	return settled, s, nil
}

// Replay recomputes a bet's settlement for audit without writing anything.
// For settled bets the recorded SettledAt is carried over.
func (e *SettlementEngine) Replay(bet *models.Bet) (models.Settlement, bool, error) {
	s, err := e.Compute(bet)
	if err != nil {
		return models.Settlement{}, false, err
	}

	if bet.Status != models.BetStatusSettled {
		return s, false, nil
	}

	if bet.SettledAt != nil {
		s.SettledAt = *bet.SettledAt
	}

	consistent := bet.Outcome != nil && *bet.Outcome == s.Outcome &&
		bet.WinAmount != nil && bet.WinAmount.Equal(s.WinAmount)

	return s, consistent, nil
}
