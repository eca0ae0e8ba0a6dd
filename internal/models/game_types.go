package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Nonce struct {
	Value     string    `json:"nonce"`
	CreatedAt time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TTL is the nonce lifetime in whole seconds.
func (n Nonce) TTL() int64 {
	return int64(n.ExpiresAt.Sub(n.CreatedAt) / time.Second)
}

// ProofBundle lets any party recompute a bet's roll from its inputs.
type ProofBundle struct {
	Nonce         string `json:"nonce"`
	ClientSeed    string `json:"client_seed"`
	Hash          string `json:"hash"`
	DerivedNumber int    `json:"derived_number"`
}

type PlaceBetRequest struct {
	GameID     string          `json:"game_id" binding:"required"`
	BetAmount  decimal.Decimal `json:"bet_amount"`
	ClientSeed string          `json:"client_seed" binding:"required"`
	Nonce      string          `json:"nonce,omitempty"`
}

// VerifyRequest asks the server to recompute a proof. Hash and
// DerivedNumber are optional claims to check against the recomputation.
type VerifyRequest struct {
	Nonce         string `json:"nonce" binding:"required"`
	ClientSeed    string `json:"client_seed" binding:"required"`
	Hash          string `json:"hash,omitempty"`
	DerivedNumber *int   `json:"derived_number,omitempty"`
}

type VerifyResponse struct {
	Proof ProofBundle `json:"proof"`
	Valid bool        `json:"valid"`
}
