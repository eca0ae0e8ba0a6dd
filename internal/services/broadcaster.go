package services

import "cartel47-backend/internal/models"

// Broadcaster pushes bet events to connected clients. Delivery is best
// effort and must not block the caller.
type Broadcaster interface {
	BroadcastBetSettled(bet *models.Bet, proof models.ProofBundle)
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastBetSettled(*models.Bet, models.ProofBundle) {}
