package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
	"github.com/pardismasoud-hue/pishgam/internal/persistence"
	"github.com/pardismasoud-hue/pishgam/internal/repository"
)

// errRollback ends a unit of work so nothing a test writes is committed.
var errRollback = errors.New("rollback")

func postgresStore(t *testing.T) (repository.Store, *pgxpool.Pool) {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	require.NoError(t, persistence.RunMigrations(dsn, zap.NewNop()))
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return repository.NewPostgresStore(pool), pool
}

// seedProfiles commits a company and an approved expert and removes them after the test.
func seedProfiles(t *testing.T, pool *pgxpool.Pool) (companyID, expertID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO company_profiles (user_id, company_name) VALUES ($1, 'Acme') RETURNING id`,
		uuid.NewString()).Scan(&companyID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO expert_profiles (user_id, full_name, is_approved) VALUES ($1, 'Sam', TRUE) RETURNING id`,
		uuid.NewString()).Scan(&expertID))
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM company_profiles WHERE id=$1`, companyID)
		_, _ = pool.Exec(ctx, `DELETE FROM expert_profiles WHERE id=$1`, expertID)
	})
	return companyID, expertID
}

// withRollback runs fn in a transaction that is always rolled back.
func withRollback(t *testing.T, store repository.Store, fn func(ctx context.Context, repos repository.Repositories)) {
	t.Helper()
	ctx := context.Background()
	err := store.WithinTx(ctx, func(repos repository.Repositories) error {
		fn(ctx, repos)
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)
}

func createPostgresTicket(t *testing.T, ctx context.Context, repos repository.Repositories, companyID, expertID string) *domain.Ticket {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	ticket := &domain.Ticket{
		CompanyID:               companyID,
		AssignedExpertID:        &expertID,
		Title:                   "VPN down",
		Description:             "Nobody can connect",
		Status:                  domain.TicketStatusOpen,
		SLAFirstResponseMinutes: 60,
		SLAResolutionMinutes:    480,
		FirstResponseDueAt:      now.Add(time.Hour),
		ResolutionDueAt:         now.Add(8 * time.Hour),
		CreatedAt:               now,
	}
	require.NoError(t, repos.Tickets.Create(ctx, ticket))
	return ticket
}

func TestPostgresTicketVersioning(t *testing.T) {
	store, pool := postgresStore(t)
	companyID, expertID := seedProfiles(t, pool)
	withRollback(t, store, func(ctx context.Context, repos repository.Repositories) {
		ticket := createPostgresTicket(t, ctx, repos, companyID, expertID)
		assert.Equal(t, 1, ticket.Version)

		first, err := repos.Tickets.GetByID(ctx, ticket.ID)
		require.NoError(t, err)
		second, err := repos.Tickets.GetByID(ctx, ticket.ID)
		require.NoError(t, err)

		first.Status = domain.TicketStatusInProgress
		first.SLAFirstResponseMinutes = 1
		require.NoError(t, repos.Tickets.Update(ctx, first))
		assert.Equal(t, 2, first.Version)

		second.Status = domain.TicketStatusResolved
		assert.ErrorIs(t, repos.Tickets.Update(ctx, second), repository.ErrVersionConflict)

		stored, err := repos.Tickets.GetByID(ctx, ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusInProgress, stored.Status)
		assert.Equal(t, 60, stored.SLAFirstResponseMinutes, "update never rewrites the SLA snapshot")
	})
}

func TestPostgresMessagesAndListings(t *testing.T) {
	store, pool := postgresStore(t)
	companyID, expertID := seedProfiles(t, pool)
	withRollback(t, store, func(ctx context.Context, repos repository.Repositories) {
		ticket := createPostgresTicket(t, ctx, repos, companyID, expertID)

		for _, internal := range []bool{false, true} {
			require.NoError(t, repos.Messages.Create(ctx, &domain.TicketMessage{
				TicketID:     ticket.ID,
				AuthorUserID: uuid.NewString(),
				AuthorRole:   domain.AuthorRoleExpert,
				Body:         "note",
				IsInternal:   internal,
				CreatedAt:    ticket.CreatedAt,
			}))
		}
		public, err := repos.Messages.ListByTicket(ctx, ticket.ID, false)
		require.NoError(t, err)
		assert.Len(t, public, 1)
		all, err := repos.Messages.ListByTicket(ctx, ticket.ID, true)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		mine, err := repos.Tickets.ListWithFilter(ctx, repository.TicketFilter{AssignedExpertID: &expertID})
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, ticket.ID, mine[0].ID)

		closed, err := repos.Tickets.ListWithFilter(ctx, repository.TicketFilter{
			CompanyID: &companyID,
			Statuses:  []domain.TicketStatus{domain.TicketStatusClosed},
		})
		require.NoError(t, err)
		assert.Empty(t, closed)

		require.NoError(t, repos.Satisfactions.Create(ctx, &domain.TicketSatisfaction{
			TicketID:  ticket.ID,
			CompanyID: companyID,
			Rating:    5,
			CreatedAt: ticket.CreatedAt,
		}))
		surveys, err := repos.Satisfactions.ListByCompany(ctx, companyID)
		require.NoError(t, err)
		require.Len(t, surveys, 1)
		assert.Equal(t, 5, surveys[0].Rating)
	})
}
