package services

import "time"

const (
	KeyBet             = "bet:%s"
	KeyUserBets        = "user:%s:bets"
	KeyUserBetsByState = "user:%s:bets:%s"
	KeyRateLimit       = "ratelimit:%s:%s"

	// Bets are the audit record and never expire.
	TTLBet time.Duration = 0

	DefaultRateLimitBets = 30 // Max 30 bets per minute
	RateLimitWindow      = time.Minute
)
