package services

import (
	"cartel47-backend/internal/models"
	"cartel47-backend/internal/rng"
)

// BuildProof recomputes the verification bundle for a nonce and client seed.
// DerivedNumber is the same roll SettlementEngine uses, so the bundle is
// meaningful before and after settlement.
func BuildProof(nonce, clientSeed string) models.ProofBundle {
	return models.ProofBundle{
		Nonce:         nonce,
		ClientSeed:    clientSeed,
		Hash:          rng.Hash(nonce, clientSeed),
		DerivedNumber: rng.DeriveInteger(nonce, clientSeed, RollModulus),
	}
}

// VerifyProof reports whether p's hash and number match its own inputs.
func VerifyProof(p models.ProofBundle) bool {
	return rng.VerifyHash(p.Nonce, p.ClientSeed, p.Hash) &&
		rng.DeriveInteger(p.Nonce, p.ClientSeed, RollModulus) == p.DerivedNumber
}
