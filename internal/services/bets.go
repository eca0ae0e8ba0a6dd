package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cartel47-backend/internal/errs"
	"cartel47-backend/internal/models"
)

// NonceIssuer is the part of NonceRegistry that bet placement needs.
type NonceIssuer interface {
	Issue() (models.Nonce, error)
	Consume(value string) bool
}

// BetService places, settles and reads bets on behalf of an authenticated
// user.
type BetService struct {
	store       BetStore
	games       GameLookup
	nonces      NonceIssuer
	engine      *SettlementEngine
	broadcaster Broadcaster
	now         func() time.Time
	log         *zap.Logger
}

func NewBetService(store BetStore, games GameLookup, nonces NonceIssuer, engine *SettlementEngine, log *zap.Logger) *BetService {
	if log == nil {
		log = zap.NewNop()
	}

	return &BetService{
		store:       store,
		games:       games,
		nonces:      nonces,
		engine:      engine,
		broadcaster: noopBroadcaster{},
		now:         time.Now,
		log:         log,
	}
}

// SetBroadcaster installs the sink for BET_SETTLED events. The websocket hub
// is built after the service, hence the setter.
func (s *BetService) SetBroadcaster(b Broadcaster) {
	if b == nil {
		b = noopBroadcaster{}
	}
	s.broadcaster = b
}

func (s *BetService) IssueNonce() (models.Nonce, error) {
	return s.nonces.Issue()
}

// PlaceBet records a PENDING bet. Game, amount and client seed are checked
// before any nonce is touched, so a rejected request consumes nothing.
func (s *BetService) PlaceBet(ctx context.Context, userID string, req models.PlaceBetRequest) (*models.Bet, error) {
	const op = "services.BetService.PlaceBet"

	if userID == "" {
		return nil, errs.Validation(op, "user id is required")
	}

	game, ok := s.games.Get(req.GameID)
	if !ok {
		return nil, errs.NotFound(op, "game not found")
	}

	if !req.BetAmount.IsPositive() {
		return nil, errs.Validation(op, "bet amount must be positive")
	}
	if req.BetAmount.LessThan(game.MinBet) {
		return nil, errs.Validation(op, "minimum bet is %s", game.MinBet)
	}
	if req.BetAmount.GreaterThan(game.MaxBet) {
		return nil, errs.Validation(op, "maximum bet is %s", game.MaxBet)
	}

	if err := models.ValidateClientSeed(req.ClientSeed); err != nil {
		return nil, errs.Validation(op, "%v", err)
	}

	nonce := req.Nonce
	if nonce == "" {
		issued, err := s.nonces.Issue()
		if err != nil {
			return nil, err
		}
		nonce = issued.Value
	}

	if !s.nonces.Consume(nonce) {
		return nil, errs.Nonce(op, "nonce is unknown, expired or already used")
	}

	bet := &models.Bet{
		ID:         models.GenerateBetID(),
		UserID:     userID,
		GameID:     game.ID,
		BetAmount:  req.BetAmount,
		Nonce:      nonce,
		ClientSeed: req.ClientSeed,
		Status:     models.BetStatusPending,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.store.CreateBet(ctx, bet); err != nil {
		return nil, err
	}

	s.log.Info("bet placed",
		zap.String("bet_id", bet.ID),
		zap.String("user_id", userID),
		zap.String("game_id", bet.GameID),
		zap.String("bet_amount", bet.BetAmount.String()),
	)

	return bet, nil
}

// GetBet returns a bet owned by actorID together with its proof.
func (s *BetService) GetBet(ctx context.Context, betID, actorID string) (*models.Bet, models.ProofBundle, error) {
	const op = "services.BetService.GetBet"

	bet, err := s.store.GetBet(ctx, betID)
	if err != nil {
		return nil, models.ProofBundle{}, err
	}
	if bet.UserID != actorID {
		return nil, models.ProofBundle{}, errs.Forbidden(op, "bet belongs to another user")
	}

	return bet, BuildProof(bet.Nonce, bet.ClientSeed), nil
}

// SettleBet settles a bet and notifies its owner.
func (s *BetService) SettleBet(ctx context.Context, betID, actorID string) (*models.Bet, models.Settlement, models.ProofBundle, error) {
	bet, settlement, err := s.engine.Settle(ctx, betID, actorID)
	if err != nil {
		return nil, models.Settlement{}, models.ProofBundle{}, err
	}

	proof := BuildProof(bet.Nonce, bet.ClientSeed)
	s.broadcaster.BroadcastBetSettled(bet, proof)

	return bet, settlement, proof, nil
}

// ListBets pages through actorID's own history, newest first.
func (s *BetService) ListBets(ctx context.Context, actorID string, q models.BetQuery) (models.BetPage, error) {
	const op = "services.BetService.ListBets"

	if q.UserID != actorID {
		return models.BetPage{}, errs.Forbidden(op, "cannot list another user's bets")
	}
	if q.Status != nil && !q.Status.Valid() {
		return models.BetPage{}, errs.Validation(op, "unknown status %q", *q.Status)
	}

	q = q.Normalize()

	bets, total, err := s.store.ListBets(ctx, q)
	if err != nil {
		return models.BetPage{}, err
	}

	return models.BetPage{
		Total:  total,
		Limit:  q.Limit,
		Offset: q.Offset,
		Bets:   bets,
	}, nil
}

// AuditBet replays a bet's settlement without writing. Owners may audit
// their own bets, admins any bet.
func (s *BetService) AuditBet(ctx context.Context, betID, actorID string, isAdmin bool) (*models.BetAudit, error) {
	const op = "services.BetService.AuditBet"

	bet, err := s.store.GetBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	if bet.UserID != actorID && !isAdmin {
		return nil, errs.Forbidden(op, "bet belongs to another user")
	}

	replayed, consistent, err := s.engine.Replay(bet)
	if err != nil {
		return nil, err
	}

	if bet.Status == models.BetStatusSettled && !consistent {
		s.log.Error("recorded settlement does not match replay",
			zap.String("bet_id", bet.ID),
			zap.Int("roll", replayed.Roll),
			zap.String("replayed_outcome", string(replayed.Outcome)),
		)
	}

	return &models.BetAudit{
		Bet:        bet,
		Proof:      BuildProof(bet.Nonce, bet.ClientSeed),
		Replay:     replayed,
		HouseEdge:  s.engine.HouseEdge(),
		Consistent: consistent,
	}, nil
}

// VerifyProof recomputes the proof for a nonce and seed. When the caller
// also claims a hash or number, Valid reports whether the claim matches.
func (s *BetService) VerifyProof(req models.VerifyRequest) (models.VerifyResponse, error) {
	const op = "services.BetService.VerifyProof"

	if req.Nonce == "" {
		return models.VerifyResponse{}, errs.Validation(op, "nonce is required")
	}
	if err := models.ValidateClientSeed(req.ClientSeed); err != nil {
		return models.VerifyResponse{}, errs.Validation(op, "%v", err)
	}

	proof := BuildProof(req.Nonce, req.ClientSeed)

	claim := proof
	if req.Hash != "" {
		claim.Hash = req.Hash
	}
	if req.DerivedNumber != nil {
		claim.DerivedNumber = *req.DerivedNumber
	}

	return models.VerifyResponse{Proof: proof, Valid: VerifyProof(claim)}, nil
}
