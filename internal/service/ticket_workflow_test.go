package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
)

var allStatuses = []domain.TicketStatus{
	domain.TicketStatusOpen,
	domain.TicketStatusInProgress,
	domain.TicketStatusWaitingForCustomer,
	domain.TicketStatusResolved,
	domain.TicketStatusClosed,
}

func TestIsValidTransition(t *testing.T) {
	valid := map[[2]domain.TicketStatus]bool{
		{domain.TicketStatusOpen, domain.TicketStatusInProgress}:               true,
		{domain.TicketStatusInProgress, domain.TicketStatusWaitingForCustomer}: true,
		{domain.TicketStatusInProgress, domain.TicketStatusResolved}:           true,
		{domain.TicketStatusWaitingForCustomer, domain.TicketStatusInProgress}: true,
		{domain.TicketStatusResolved, domain.TicketStatusClosed}:               true,
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := valid[[2]domain.TicketStatus{from, to}]
			assert.Equal(t, want, IsValidTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestClosedIsTerminal(t *testing.T) {
	for _, to := range allStatuses {
		assert.False(t, IsValidTransition(domain.TicketStatusClosed, to))
	}
}

func TestApplyStatusChangeResolvedBreach(t *testing.T) {
	created := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name         string
		resolvedAt   time.Time
		wantBreached bool
	}{
		{name: "before due", resolvedAt: created.Add(479 * time.Minute)},
		{name: "exactly at due", resolvedAt: created.Add(480 * time.Minute)},
		{name: "after due", resolvedAt: created.Add(500 * time.Minute), wantBreached: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := &domain.Ticket{Status: domain.TicketStatusInProgress, ResolutionDueAt: created.Add(480 * time.Minute)}
			flipped := applyStatusChange(ticket, domain.TicketStatusResolved, tt.resolvedAt)
			assert.Equal(t, tt.wantBreached, flipped)
			assert.Equal(t, tt.wantBreached, ticket.ResolutionBreached)
			assert.Equal(t, domain.TicketStatusResolved, ticket.Status)
			if assert.NotNil(t, ticket.ResolvedAt) {
				assert.Equal(t, tt.resolvedAt, *ticket.ResolvedAt)
			}
			assert.Nil(t, ticket.ClosedAt)
		})
	}
}

func TestApplyStatusChangeClosedKeepsBreach(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	ticket := &domain.Ticket{Status: domain.TicketStatusResolved, ResolutionBreached: true, ResolutionDueAt: now.Add(time.Hour)}
	assert.False(t, applyStatusChange(ticket, domain.TicketStatusClosed, now))
	assert.True(t, ticket.ResolutionBreached)
	if assert.NotNil(t, ticket.ClosedAt) {
		assert.Equal(t, now, *ticket.ClosedAt)
	}
}

func TestRecordFirstResponse(t *testing.T) {
	created := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	due := created.Add(time.Hour)

	t.Run("company message never counts", func(t *testing.T) {
		ticket := &domain.Ticket{FirstResponseDueAt: due}
		marked, _ := recordFirstResponse(ticket, domain.AuthorRoleCompany, created.Add(2*time.Hour))
		assert.False(t, marked)
		assert.Nil(t, ticket.FirstResponseAt)
		assert.False(t, ticket.FirstResponseBreached)
	})

	t.Run("first qualifying message wins", func(t *testing.T) {
		ticket := &domain.Ticket{FirstResponseDueAt: due}
		first := created.Add(30 * time.Minute)
		marked, breached := recordFirstResponse(ticket, domain.AuthorRoleExpert, first)
		assert.True(t, marked)
		assert.False(t, breached)

		marked, breached = recordFirstResponse(ticket, domain.AuthorRoleAdmin, created.Add(3*time.Hour))
		assert.False(t, marked)
		assert.False(t, breached)
		assert.Equal(t, first, *ticket.FirstResponseAt)
		assert.False(t, ticket.FirstResponseBreached)
	})

	t.Run("late admin reply breaches", func(t *testing.T) {
		ticket := &domain.Ticket{FirstResponseDueAt: due}
		marked, breached := recordFirstResponse(ticket, domain.AuthorRoleAdmin, due.Add(time.Second))
		assert.True(t, marked)
		assert.True(t, breached)
		assert.True(t, ticket.FirstResponseBreached)
	})
}
