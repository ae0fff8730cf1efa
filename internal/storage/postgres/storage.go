package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/domain/repository"
)

const uniqueViolationCode = "23505"

// pgxPool abstracts the pgx pool surface used by the storage so tests can
// substitute a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type operatorRepository struct {
	storage *Storage
}

type programRepository struct {
	storage *Storage
}

type cardRepository struct {
	storage *Storage
}

type redemptionRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Operators() repository.OperatorRepository {
	return &operatorRepository{storage: s}
}

func (s *Storage) Programs() repository.ProgramRepository {
	return &programRepository{storage: s}
}

func (s *Storage) Cards() repository.CardRepository {
	return &cardRepository{storage: s}
}

func (s *Storage) Redemptions() repository.RedemptionRepository {
	return &redemptionRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS operators (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS programs (
            id SERIAL PRIMARY KEY,
            owner_id BIGINT NOT NULL REFERENCES operators(id),
            name TEXT NOT NULL,
            reward TEXT NOT NULL DEFAULT '',
            total_slots INT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS cards (
            id SERIAL PRIMARY KEY,
            program_id BIGINT NOT NULL REFERENCES programs(id),
            customer TEXT NOT NULL,
            total_slots INT NOT NULL,
            current_stamps INT NOT NULL DEFAULT 0,
            reward_claimed BOOLEAN NOT NULL DEFAULT FALSE,
            redemptions INT NOT NULL DEFAULT 0,
            last_commit_id TEXT NOT NULL DEFAULT '',
            version BIGINT NOT NULL DEFAULT 1,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (program_id, customer)
        )`,
		`CREATE TABLE IF NOT EXISTS redemptions (
            id SERIAL PRIMARY KEY,
            card_id BIGINT NOT NULL REFERENCES cards(id),
            cycle INT NOT NULL,
            stamps INT NOT NULL,
            attempt_id TEXT UNIQUE NOT NULL,
            redeemed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_programs_owner ON programs(owner_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_program ON cards(program_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_redemptions_card ON redemptions(card_id, redeemed_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- OperatorRepository implementation ---

func (r *operatorRepository) Create(ctx context.Context, login, passwordHash string) (*model.Operator, error) {
	const query = `INSERT INTO operators (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	var op model.Operator
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash).Scan(&op.ID, &op.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	op.Login = login
	op.PasswordHash = passwordHash
	return &op, nil
}

func (r *operatorRepository) GetByLogin(ctx context.Context, login string) (*model.Operator, error) {
	const query = `SELECT id, login, password_hash, created_at FROM operators WHERE login=$1`
	var op model.Operator
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&op.ID, &op.Login, &op.PasswordHash, &op.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

func (r *operatorRepository) GetByID(ctx context.Context, id int64) (*model.Operator, error) {
	const query = `SELECT id, login, password_hash, created_at FROM operators WHERE id=$1`
	var op model.Operator
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&op.ID, &op.Login, &op.PasswordHash, &op.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

// --- ProgramRepository implementation ---

func (r *programRepository) Create(ctx context.Context, ownerID int64, name, reward string, totalSlots int) (*model.Program, error) {
	const query = `INSERT INTO programs (owner_id, name, reward, total_slots) VALUES ($1, $2, $3, $4)
                   RETURNING id, created_at`
	program := model.Program{OwnerID: ownerID, Name: name, Reward: reward, TotalSlots: totalSlots}
	err := r.storage.pool.QueryRow(ctx, query, ownerID, name, reward, totalSlots).Scan(&program.ID, &program.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepository) GetByID(ctx context.Context, id int64) (*model.Program, error) {
	const query = `SELECT id, owner_id, name, reward, total_slots, created_at FROM programs WHERE id=$1`
	var p model.Program
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Reward, &p.TotalSlots, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *programRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Program, error) {
	const query = `SELECT id, owner_id, name, reward, total_slots, created_at
                   FROM programs WHERE owner_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Program
	for rows.Next() {
		var p model.Program
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Reward, &p.TotalSlots, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- CardRepository implementation ---

const cardColumns = `id, program_id, customer, total_slots, current_stamps, reward_claimed,
                     redemptions, last_commit_id, version, created_at, updated_at`

func scanCard(row pgx.Row) (*model.Card, error) {
	var c model.Card
	err := row.Scan(&c.ID, &c.ProgramID, &c.Customer, &c.TotalSlots, &c.CurrentStamps, &c.RewardClaimed,
		&c.Redemptions, &c.LastCommitID, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) Create(ctx context.Context, program *model.Program, customer string) (*model.Card, error) {
	const query = `INSERT INTO cards (program_id, customer, total_slots) VALUES ($1, $2, $3)
                   RETURNING id, version, created_at, updated_at`
	card := model.Card{ProgramID: program.ID, Customer: customer, TotalSlots: program.TotalSlots}
	err := r.storage.pool.QueryRow(ctx, query, program.ID, customer, program.TotalSlots).
		Scan(&card.ID, &card.Version, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) GetByID(ctx context.Context, id int64) (*model.Card, error) {
	const query = `SELECT ` + cardColumns + ` FROM cards WHERE id=$1`
	card, err := scanCard(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return card, nil
}

func (r *cardRepository) ListByProgram(ctx context.Context, programID int64) ([]model.Card, error) {
	const query = `SELECT ` + cardColumns + ` FROM cards WHERE program_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Card
	for rows.Next() {
		var c model.Card
		if err := rows.Scan(&c.ID, &c.ProgramID, &c.Customer, &c.TotalSlots, &c.CurrentStamps, &c.RewardClaimed,
			&c.Redemptions, &c.LastCommitID, &c.Version, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateProgress performs the conditional write every card mutation funnels
// through. The UPDATE is keyed on the version read by the caller; zero rows
// means either the card vanished or another writer won, and the follow-up
// read inside the same transaction tells the two apart.
func (r *cardRepository) UpdateProgress(ctx context.Context, card *model.Card, expectedVersion int64) (*model.Card, error) {
	const updateQuery = `UPDATE cards
                         SET current_stamps=$1, reward_claimed=$2, redemptions=$3, last_commit_id=$4,
                             version=version+1, updated_at=NOW()
                         WHERE id=$5 AND version=$6
                         RETURNING version, updated_at`

	updated := *card
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, updateQuery,
			card.CurrentStamps, card.RewardClaimed, card.Redemptions, card.LastCommitID,
			card.ID, expectedVersion,
		).Scan(&updated.Version, &updated.UpdatedAt)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		var storedVersion int64
		err = tx.QueryRow(ctx, `SELECT version FROM cards WHERE id=$1`, card.ID).Scan(&storedVersion)
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		if err != nil {
			return err
		}
		return domainErrors.ErrVersionConflict
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// --- RedemptionRepository implementation ---

func (r *redemptionRepository) Create(ctx context.Context, cardID int64, cycle, stamps int, attemptID string) (*model.Redemption, error) {
	const query = `INSERT INTO redemptions (card_id, cycle, stamps, attempt_id) VALUES ($1, $2, $3, $4)
                   RETURNING id, redeemed_at`
	redemption := model.Redemption{CardID: cardID, Cycle: cycle, Stamps: stamps, AttemptID: attemptID}
	err := r.storage.pool.QueryRow(ctx, query, cardID, cycle, stamps, attemptID).
		Scan(&redemption.ID, &redemption.RedeemedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &redemption, nil
}

func (r *redemptionRepository) ListByCard(ctx context.Context, cardID int64) ([]model.Redemption, error) {
	const query = `SELECT id, card_id, cycle, stamps, attempt_id, redeemed_at
                   FROM redemptions WHERE card_id=$1 ORDER BY redeemed_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Redemption
	for rows.Next() {
		var rec model.Redemption
		if err := rows.Scan(&rec.ID, &rec.CardID, &rec.Cycle, &rec.Stamps, &rec.AttemptID, &rec.RedeemedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
