package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrVersionConflict is returned when an optimistic update loses a race.
var ErrVersionConflict = errors.New("row was modified concurrently")

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories groups every repository bound to the same connection or transaction.
type Repositories struct {
	Tickets       TicketRepository
	Messages      TicketMessageRepository
	TimeLogs      TicketTimeLogRepository
	Satisfactions TicketSatisfactionRepository
	History       TicketHistoryRepository
	Catalog       CatalogRepository
	Contracts     ContractRepository
	Assets        AssetRepository
	Companies     CompanyRepository
	Experts       ExpertRepository
}

// Store hands out repositories and runs units of work.
type Store interface {
	Repos() Repositories
	WithinTx(ctx context.Context, fn func(Repositories) error) error
	Ping(ctx context.Context) error
}

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore builds a Store over the pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

// NewRepositories binds every repository to db.
func NewRepositories(db DBTX) Repositories {
	return Repositories{
		Tickets:       NewTicketRepository(db),
		Messages:      NewTicketMessageRepository(db),
		TimeLogs:      NewTicketTimeLogRepository(db),
		Satisfactions: NewTicketSatisfactionRepository(db),
		History:       NewTicketHistoryRepository(db),
		Catalog:       NewCatalogRepository(db),
		Contracts:     NewContractRepository(db),
		Assets:        NewAssetRepository(db),
		Companies:     NewCompanyRepository(db),
		Experts:       NewExpertRepository(db),
	}
}

func (s *postgresStore) Repos() Repositories {
	return NewRepositories(s.pool)
}

func (s *postgresStore) WithinTx(ctx context.Context, fn func(Repositories) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return s.pool.Ping(ctx)
}
