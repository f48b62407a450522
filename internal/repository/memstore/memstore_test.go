package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
	"github.com/pardismasoud-hue/pishgam/internal/repository"
)

func seedTicket(t *testing.T, s *Store) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		CompanyID: "company-1",
		Title:     "printer offline",
		Status:    domain.TicketStatusOpen,
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Repos().Tickets.Create(context.Background(), ticket))
	return ticket
}

func TestTicketUpdateRejectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	s := New()
	ticket := seedTicket(t, s)
	assert.Equal(t, 1, ticket.Version)

	first, err := s.Repos().Tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	second, err := s.Repos().Tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)

	first.Status = domain.TicketStatusInProgress
	require.NoError(t, s.Repos().Tickets.Update(ctx, first))
	assert.Equal(t, 2, first.Version)

	second.Status = domain.TicketStatusInProgress
	assert.ErrorIs(t, s.Repos().Tickets.Update(ctx, second), repository.ErrVersionConflict)
}

func TestTicketUpdateKeepsSLASnapshot(t *testing.T) {
	ctx := context.Background()
	s := New()
	ticket := seedTicket(t, s)
	ticket.SLAFirstResponseMinutes = 1
	ticket.Status = domain.TicketStatusInProgress
	require.NoError(t, s.Repos().Tickets.Update(ctx, ticket))

	stored, err := s.Repos().Tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.SLAFirstResponseMinutes)
	assert.Equal(t, domain.TicketStatusInProgress, stored.Status)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	ticket := seedTicket(t, s)
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(repos repository.Repositories) error {
		require.NoError(t, repos.Messages.Create(ctx, &domain.TicketMessage{TicketID: ticket.ID, Body: "hi"}))
		current, err := repos.Tickets.GetByID(ctx, ticket.ID)
		require.NoError(t, err)
		current.Status = domain.TicketStatusInProgress
		require.NoError(t, repos.Tickets.Update(ctx, current))
		return boom
	})
	require.ErrorIs(t, err, boom)

	msgs, err := s.Repos().Messages.ListByTicket(ctx, ticket.ID, true)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	stored, err := s.Repos().Tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, stored.Status)
	assert.Equal(t, 1, stored.Version)
}

func TestSoftDeletedRowsAreInvisible(t *testing.T) {
	ctx := context.Background()
	s := New()
	ticket := seedTicket(t, s)

	msg := &domain.TicketMessage{TicketID: ticket.ID, Body: "gone"}
	require.NoError(t, s.Repos().Messages.Create(ctx, msg))
	s.SoftDelete(msg.ID)
	msgs, err := s.Repos().Messages.ListByTicket(ctx, ticket.ID, true)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	s.SoftDelete(ticket.ID)
	_, err = s.Repos().Tickets.GetByID(ctx, ticket.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMessagesHideInternalWhenAsked(t *testing.T) {
	ctx := context.Background()
	s := New()
	ticket := seedTicket(t, s)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Repos().Messages.Create(ctx, &domain.TicketMessage{TicketID: ticket.ID, Body: "public", CreatedAt: base}))
	require.NoError(t, s.Repos().Messages.Create(ctx, &domain.TicketMessage{TicketID: ticket.ID, Body: "note", IsInternal: true, CreatedAt: base.Add(time.Minute)}))

	all, err := s.Repos().Messages.ListByTicket(ctx, ticket.ID, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "public", all[0].Body)

	public, err := s.Repos().Messages.ListByTicket(ctx, ticket.ID, false)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "public", public[0].Body)
}

func TestTimeLogsNewestFirstAndScopedToExpert(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	logs := []domain.TicketTimeLog{
		{TicketID: "t1", ExpertID: "e1", Minutes: 10, LoggedAt: base},
		{TicketID: "t1", ExpertID: "e2", Minutes: 20, LoggedAt: base.Add(time.Hour)},
		{TicketID: "t1", ExpertID: "e1", Minutes: 30, LoggedAt: base.Add(2 * time.Hour)},
	}
	for i := range logs {
		require.NoError(t, s.Repos().TimeLogs.Create(ctx, &logs[i]))
	}

	all, err := s.Repos().TimeLogs.ListByTicket(ctx, "t1", nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 30, all[0].Minutes)
	assert.Equal(t, 10, all[2].Minutes)

	expert := "e1"
	mine, err := s.Repos().TimeLogs.ListByTicket(ctx, "t1", &expert)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, 30, mine[0].Minutes)
}

func TestSeedInvariants(t *testing.T) {
	s := New()
	company := s.AddCompany(domain.CompanyProfile{CompanyName: "Acme"})
	first := s.AddExpert(domain.ExpertProfile{FullName: "A", IsApproved: true})
	second := s.AddExpert(domain.ExpertProfile{FullName: "B", IsApproved: true})

	_, err := s.LinkExpert(company.ID, first.ID, true)
	require.NoError(t, err)
	_, err = s.LinkExpert(company.ID, second.ID, true)
	assert.ErrorIs(t, err, ErrSecondPrimary)
	_, err = s.LinkExpert(company.ID, second.ID, false)
	assert.NoError(t, err)

	_, err = s.AddContract(domain.Contract{CompanyID: company.ID, IsActive: true})
	require.NoError(t, err)
	_, err = s.AddContract(domain.Contract{CompanyID: company.ID, IsActive: true})
	assert.ErrorIs(t, err, ErrSecondActiveContract)

	_, err = s.AddService(domain.ServiceCatalogItem{Name: "bad", DefaultFirstResponseMinutes: 60, DefaultResolutionMinutes: 30})
	assert.ErrorIs(t, err, domain.ErrSLAOrder)
}

func TestSatisfactionUniquePerTicket(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Repos().Satisfactions.Create(ctx, &domain.TicketSatisfaction{TicketID: "t1", Rating: 5}))
	assert.ErrorIs(t, s.Repos().Satisfactions.Create(ctx, &domain.TicketSatisfaction{TicketID: "t1", Rating: 4}), ErrDuplicateSatisfaction)

	exists, err := s.Repos().Satisfactions.ExistsForTicket(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestListWithFilterScopesAndOrders(t *testing.T) {
	ctx := context.Background()
	s := New()
	expertID := "expert-1"
	older := seedTicket(t, s)
	newer := &domain.Ticket{
		CompanyID:        "company-1",
		AssignedExpertID: &expertID,
		Title:            "vpn down",
		Status:           domain.TicketStatusOpen,
		CreatedAt:        older.CreatedAt.Add(time.Hour),
	}
	require.NoError(t, s.Repos().Tickets.Create(ctx, newer))
	other := &domain.Ticket{CompanyID: "company-2", Status: domain.TicketStatusClosed, CreatedAt: older.CreatedAt}
	require.NoError(t, s.Repos().Tickets.Create(ctx, other))

	companyID := "company-1"
	got, err := s.Repos().Tickets.ListWithFilter(ctx, repository.TicketFilter{CompanyID: &companyID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)

	got, err = s.Repos().Tickets.ListWithFilter(ctx, repository.TicketFilter{AssignedExpertID: &expertID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, newer.ID, got[0].ID)

	got, err = s.Repos().Tickets.ListWithFilter(ctx, repository.TicketFilter{Statuses: []domain.TicketStatus{domain.TicketStatusClosed}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, other.ID, got[0].ID)

	s.SoftDelete(newer.ID)
	got, err = s.Repos().Tickets.ListWithFilter(ctx, repository.TicketFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSatisfactionsListedPerCompany(t *testing.T) {
	ctx := context.Background()
	s := New()
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	ticketIDs := []string{"ticket-a", "ticket-b", "ticket-c"}
	for i, companyID := range []string{"company-1", "company-2", "company-1"} {
		require.NoError(t, s.Repos().Satisfactions.Create(ctx, &domain.TicketSatisfaction{
			TicketID:  ticketIDs[i],
			CompanyID: companyID,
			Rating:    i + 1,
			CreatedAt: at.Add(time.Duration(i) * time.Hour),
		}))
	}

	got, err := s.Repos().Satisfactions.ListByCompany(ctx, "company-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Rating)
	assert.Equal(t, 1, got[1].Rating)
}
