package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cartel47-backend/internal/services"
)

func TestBuildProof(t *testing.T) {
	proof := services.BuildProof("server-nonce", "client-seed")

	assert.Equal(t, "server-nonce", proof.Nonce)
	assert.Equal(t, "client-seed", proof.ClientSeed)
	assert.Equal(t, "7ef491c04cbcd7d694d9f91ff1c263edd657f79a9d2c178ee2498642579a8718", proof.Hash)
	assert.Equal(t, 12, proof.DerivedNumber)
	assert.True(t, services.VerifyProof(proof))
}

func TestVerifyProofRejectsTampering(t *testing.T) {
	honest := services.BuildProof(auditNonce, seedRoll42)
	assert.Equal(t, 42, honest.DerivedNumber)

	number := honest
	number.DerivedNumber = 41
	assert.False(t, services.VerifyProof(number))

	hash := honest
	hash.Hash = "00" + honest.Hash[2:]
	assert.False(t, services.VerifyProof(hash))

	seed := honest
	seed.ClientSeed = seedRoll99
	assert.False(t, services.VerifyProof(seed))
}
