package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BetStatus string

const (
	BetStatusPending BetStatus = "PENDING"
	BetStatusSettled BetStatus = "SETTLED"
)

func (s BetStatus) Valid() bool {
	return s == BetStatusPending || s == BetStatusSettled
}

type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLoss Outcome = "LOSS"
)

// Bet is a wager bound to one nonce. Outcome, WinAmount and SettledAt are
// nil while Status is PENDING and set together when it becomes SETTLED.
type Bet struct {
	ID         string           `json:"bet_id"`
	UserID     string           `json:"user_id"`
	GameID     string           `json:"game_id"`
	BetAmount  decimal.Decimal  `json:"bet_amount"`
	Nonce      string           `json:"nonce"`
	ClientSeed string           `json:"client_seed"`
	Status     BetStatus        `json:"status"`
	Outcome    *Outcome         `json:"outcome"`
	WinAmount  *decimal.Decimal `json:"win_amount"`
	CreatedAt  time.Time        `json:"created_at"`
	SettledAt  *time.Time       `json:"settled_at"`
}

// Settlement is the result of settling a bet: the write set plus the
// values that produced it.
type Settlement struct {
	Roll       int             `json:"roll"`
	Threshold  decimal.Decimal `json:"threshold"`
	Outcome    Outcome         `json:"outcome"`
	Multiplier decimal.Decimal `json:"multiplier"`
	WinAmount  decimal.Decimal `json:"win_amount"`
	SettledAt  time.Time       `json:"settled_at"`
}

// Apply writes s onto a pending bet.
func (b *Bet) Apply(s Settlement) {
	outcome := s.Outcome
	win := s.WinAmount
	at := s.SettledAt

	b.Status = BetStatusSettled
	b.Outcome = &outcome
	b.WinAmount = &win
	b.SettledAt = &at
}

func (b *Bet) Clone() *Bet {
	c := *b
	if b.Outcome != nil {
		o := *b.Outcome
		c.Outcome = &o
	}
	if b.WinAmount != nil {
		w := *b.WinAmount
		c.WinAmount = &w
	}
	if b.SettledAt != nil {
		at := *b.SettledAt
		c.SettledAt = &at
	}
	return &c
}

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// BetQuery selects a page of a user's bet history, newest first.
type BetQuery struct {
	UserID string
	Status *BetStatus
	Limit  int
	Offset int
}

func (q BetQuery) Normalize() BetQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultHistoryLimit
	}
	if q.Limit > MaxHistoryLimit {
		q.Limit = MaxHistoryLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

type BetPage struct {
	Total  int64  `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Bets   []*Bet `json:"bets"`
}

// BetAudit is a stored bet next to a fresh replay of its settlement.
// Consistent is false for pending bets.
type BetAudit struct {
	Bet        *Bet            `json:"bet"`
	Proof      ProofBundle     `json:"proof"`
	Replay     Settlement      `json:"replay"`
	HouseEdge  decimal.Decimal `json:"house_edge"`
	Consistent bool            `json:"consistent"`
}
