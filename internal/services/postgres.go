package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"cartel47-backend/internal/errs"
	"cartel47-backend/internal/models"
)

// BetSchema creates the bets table. The unique nonce column binds each
// nonce to at most one bet.
const BetSchema = `
CREATE TABLE IF NOT EXISTS bets (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	game_id     TEXT NOT NULL,
	bet_amount  NUMERIC NOT NULL CHECK (bet_amount > 0),
	nonce       TEXT NOT NULL UNIQUE,
	client_seed TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'PENDING',
	outcome     TEXT,
	win_amount  NUMERIC,
	created_at  TIMESTAMPTZ NOT NULL,
	settled_at  TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS bets_user_created_idx ON bets (user_id, created_at DESC);
`

const betColumns = "id, user_id, game_id, bet_amount, nonce, client_seed, status, outcome, win_amount, created_at, settled_at"

const pqUniqueViolation = "23505"

// PostgresStore implements BetStore on PostgreSQL. Settlement is a single
// conditional UPDATE, so concurrent settles race inside the database.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgresStore opens dsn with the lib/pq driver and checks the
// connection.
func OpenPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return NewPostgresStore(db), nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, BetSchema); err != nil {
		return fmt.Errorf("failed to migrate bets: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateBet(ctx context.Context, bet *models.Bet) error {
	const op = "services.PostgresStore.CreateBet"

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO bets (id, user_id, game_id, bet_amount, nonce, client_seed, status, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		bet.ID, bet.UserID, bet.GameID, bet.BetAmount, bet.Nonce, bet.ClientSeed, string(bet.Status), bet.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return errs.Conflict(op, "bet or nonce already recorded")
		}
		return errs.Internal(op, fmt.Errorf("failed to insert bet: %w", err))
	}
	return nil
}

func (s *PostgresStore) GetBet(ctx context.Context, id string) (*models.Bet, error) {
	const op = "services.PostgresStore.GetBet"

	row := s.db.QueryRowContext(ctx, "SELECT "+betColumns+" FROM bets WHERE id = $1", id)

	bet, err := scanBet(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound(op, "bet not found")
	}
	if err != nil {
		return nil, errs.Internal(op, fmt.Errorf("failed to get bet: %w", err))
	}
	return bet, nil
}

func (s *PostgresStore) SettleBet(ctx context.Context, id string, settlement models.Settlement) (*models.Bet, error) {
	const op = "services.PostgresStore.SettleBet"

	row := s.db.QueryRowContext(ctx,
		"UPDATE bets SET status = $2, outcome = $3, win_amount = $4, settled_at = $5 WHERE id = $1 AND status = $6 RETURNING "+betColumns,
		id, string(models.BetStatusSettled), string(settlement.Outcome), settlement.WinAmount, settlement.SettledAt, string(models.BetStatusPending))

	bet, err := scanBet(row)
	if err == nil {
		return bet, nil
	}
	if err != sql.ErrNoRows {
		return nil, errs.Internal(op, fmt.Errorf("failed to settle bet: %w", err))
	}

	// No row was updated: either the bet is missing or it is not pending.
	var exists bool
	if err := s.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM bets WHERE id = $1)", id).Scan(&exists); err != nil {
		return nil, errs.Internal(op, fmt.Errorf("failed to check bet: %w", err))
	}
	if !exists {
		return nil, errs.NotFound(op, "bet not found")
	}
	return nil, errs.Conflict(op, "bet is already settled")
}

func (s *PostgresStore) ListBets(ctx context.Context, q models.BetQuery) ([]*models.Bet, int64, error) {
	const op = "services.PostgresStore.ListBets"

	q = q.Normalize()

	where := []string{"user_id = $1"}
	args := []any{q.UserID}
	if q.Status != nil {
		args = append(args, string(*q.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	filter := strings.Join(where, " AND ")

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bets WHERE "+filter, args...).Scan(&total); err != nil {
		return nil, 0, errs.Internal(op, fmt.Errorf("failed to count bets: %w", err))
	}

	args = append(args, q.Limit, q.Offset)
	query := fmt.Sprintf("SELECT %s FROM bets WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		betColumns, filter, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errs.Internal(op, fmt.Errorf("failed to list bets: %w", err))
	}
	defer rows.Close()

	bets := make([]*models.Bet, 0, q.Limit)
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, 0, errs.Internal(op, fmt.Errorf("failed to scan bet: %w", err))
		}
		bets = append(bets, bet)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errs.Internal(op, fmt.Errorf("failed to list bets: %w", err))
	}

	return bets, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBet(row rowScanner) (*models.Bet, error) {
	var (
		b         models.Bet
		status    string
		outcome   sql.NullString
		winAmount decimal.NullDecimal
		settledAt sql.NullTime
	)

	err := row.Scan(&b.ID, &b.UserID, &b.GameID, &b.BetAmount, &b.Nonce, &b.ClientSeed,
		&status, &outcome, &winAmount, &b.CreatedAt, &settledAt)
	if err != nil {
		return nil, err
	}

	b.Status = models.BetStatus(status)
	if outcome.Valid {
		o := models.Outcome(outcome.String)
		b.Outcome = &o
	}
	if winAmount.Valid {
		w := winAmount.Decimal
		b.WinAmount = &w
	}
	if settledAt.Valid {
		at := settledAt.Time
		b.SettledAt = &at
	}

	return &b, nil
}
