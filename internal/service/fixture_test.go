package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pardismasoud-hue/pishgam/internal/auth"
	"github.com/pardismasoud-hue/pishgam/internal/config"
	"github.com/pardismasoud-hue/pishgam/internal/domain"
	"github.com/pardismasoud-hue/pishgam/internal/events"
	"github.com/pardismasoud-hue/pishgam/internal/observability"
	"github.com/pardismasoud-hue/pishgam/internal/repository/memstore"
)

var baseTime = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	t       *testing.T
	ctx     context.Context
	store   *memstore.Store
	clock   *fakeClock
	metrics *observability.Metrics
	svc     *TicketService

	mu        sync.Mutex
	published []events.Event

	company      domain.CompanyProfile
	companyActor auth.Actor
	expert       domain.ExpertProfile
	expertActor  auth.Actor
	adminActor   auth.Actor
	service      domain.ServiceCatalogItem
}

var testSLADefaults = config.SLAConfig{FirstResponseMinutes: 240, ResolutionMinutes: 1440}

// newFixture seeds one company with an approved primary expert and a 60/480 service.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &fakeClock{now: baseTime}
	store := memstore.New(memstore.WithClock(clock.Now))
	dispatcher := events.NewInMemoryDispatcher()
	f := &fixture{
		t:       t,
		ctx:     context.Background(),
		store:   store,
		clock:   clock,
		metrics: observability.NewMetrics(),
	}
	dispatcher.SubscribeAll(func(_ context.Context, e events.Event) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.published = append(f.published, e)
		return nil
	})
	f.svc = NewTicketService(TicketDependencies{
		Store:       store,
		Dispatcher:  dispatcher,
		Metrics:     f.metrics,
		Logger:      zap.NewNop(),
		SLADefaults: testSLADefaults,
		Clock:       clock.Now,
	})

	f.company = store.AddCompany(domain.CompanyProfile{CompanyName: "Acme"})
	f.companyActor = auth.Actor{Role: domain.RoleCompany, UserID: f.company.UserID}
	f.expert = f.addExpert(true, true, true)
	f.expertActor = auth.Actor{Role: domain.RoleExpert, UserID: f.expert.UserID}
	f.adminActor = auth.Actor{Role: domain.RoleAdmin, UserID: "7a3c0a52-1a5b-4a27-9a5e-2f0f3c1d9e01"}

	service, err := store.AddService(domain.ServiceCatalogItem{
		Name:                        "Network support",
		DefaultFirstResponseMinutes: 60,
		DefaultResolutionMinutes:    480,
		IsActive:                    true,
	})
	require.NoError(t, err)
	f.service = service
	return f
}

func (f *fixture) addExpert(approved, linked, primary bool) domain.ExpertProfile {
	f.t.Helper()
	expert := f.store.AddExpert(domain.ExpertProfile{FullName: "Expert", IsApproved: approved})
	if linked {
		_, err := f.store.LinkExpert(f.company.ID, expert.ID, primary)
		require.NoError(f.t, err)
	}
	return expert
}

func (f *fixture) createTicket() *domain.Ticket {
	f.t.Helper()
	ticket, err := f.svc.CreateTicket(f.ctx, f.companyActor, CreateTicketInput{
		Title:       "VPN down",
		Description: "Nobody can connect since this morning",
		ServiceID:   &f.service.ID,
	})
	require.NoError(f.t, err)
	return ticket
}

// moveTo drives the ticket through the admin path to status.
func (f *fixture) moveTo(ticketID string, path ...domain.TicketStatus) *domain.Ticket {
	f.t.Helper()
	var ticket *domain.Ticket
	for _, status := range path {
		var err error
		ticket, err = f.svc.ChangeStatus(f.ctx, f.adminActor, ticketID, status)
		require.NoError(f.t, err)
	}
	return ticket
}

func (f *fixture) reload(ticketID string) *domain.Ticket {
	f.t.Helper()
	ticket, err := f.svc.GetTicket(f.ctx, f.adminActor, ticketID)
	require.NoError(f.t, err)
	return ticket
}

func (f *fixture) eventsOfType(eventType events.EventType) []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []events.Event
	for _, e := range f.published {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
