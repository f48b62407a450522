// Package memstore is an in-process repository.Store used by tests and by the
// API when no POSTGRES_DSN is configured.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
	"github.com/pardismasoud-hue/pishgam/internal/repository"
)

var (
	// ErrSecondPrimary mirrors the partial unique index on primary company links.
	ErrSecondPrimary = errors.New("company already has a primary expert link")
	// ErrSecondActiveContract mirrors the partial unique index on active contracts.
	ErrSecondActiveContract = errors.New("company already has an active contract")
	// ErrDuplicateSatisfaction is the unique violation PostgreSQL raises on ticket_satisfactions.ticket_id.
	ErrDuplicateSatisfaction error = &pgconn.PgError{
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint",
		ConstraintName: "ticket_satisfactions_ticket_id_key",
	}
)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store keeps every table in maps guarded by one mutex. A unit of work holds
// the mutex for its whole duration and restores a snapshot on failure.
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

type state struct {
	tickets          map[string]domain.Ticket
	messages         []domain.TicketMessage
	timeLogs         []domain.TicketTimeLog
	satisfactions    []domain.TicketSatisfaction
	history          []domain.TicketHistory
	services         map[string]domain.ServiceCatalogItem
	contracts        map[string]domain.Contract
	contractServices []domain.ContractService
	assets           map[string]domain.Asset
	companies        map[string]domain.CompanyProfile
	experts          map[string]domain.ExpertProfile
	links            []domain.CompanyExpertLink
	deleted          map[string]bool
}

func newState() *state {
	return &state{
		tickets:   map[string]domain.Ticket{},
		services:  map[string]domain.ServiceCatalogItem{},
		contracts: map[string]domain.Contract{},
		assets:    map[string]domain.Asset{},
		companies: map[string]domain.CompanyProfile{},
		experts:   map[string]domain.ExpertProfile{},
		deleted:   map[string]bool{},
	}
}

func (st *state) clone() *state {
	out := &state{
		tickets:          make(map[string]domain.Ticket, len(st.tickets)),
		messages:         append([]domain.TicketMessage(nil), st.messages...),
		timeLogs:         append([]domain.TicketTimeLog(nil), st.timeLogs...),
		satisfactions:    append([]domain.TicketSatisfaction(nil), st.satisfactions...),
		history:          append([]domain.TicketHistory(nil), st.history...),
		services:         make(map[string]domain.ServiceCatalogItem, len(st.services)),
		contracts:        make(map[string]domain.Contract, len(st.contracts)),
		contractServices: append([]domain.ContractService(nil), st.contractServices...),
		assets:           make(map[string]domain.Asset, len(st.assets)),
		companies:        make(map[string]domain.CompanyProfile, len(st.companies)),
		experts:          make(map[string]domain.ExpertProfile, len(st.experts)),
		links:            append([]domain.CompanyExpertLink(nil), st.links...),
		deleted:          make(map[string]bool, len(st.deleted)),
	}
	for k, v := range st.tickets {
		out.tickets[k] = v
	}
	for k, v := range st.services {
		out.services[k] = v
	}
	for k, v := range st.contracts {
		out.contracts[k] = v
	}
	for k, v := range st.assets {
		out.assets[k] = v
	}
	for k, v := range st.companies {
		out.companies[k] = v
	}
	for k, v := range st.experts {
		out.experts[k] = v
	}
	for k, v := range st.deleted {
		out.deleted[k] = v
	}
	return out
}

func (st *state) live(id string) bool {
	return !st.deleted[id]
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{state: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ repository.Store = (*Store)(nil)

// Repos returns repositories that lock per call.
func (s *Store) Repos() repository.Repositories {
	return s.repositories(&view{store: s, locking: true})
}

// WithinTx runs fn with exclusive access and rolls back every write when fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(s.repositories(&view{store: s})); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) repositories(v *view) repository.Repositories {
	return repository.Repositories{
		Tickets:       ticketRepo{v},
		Messages:      messageRepo{v},
		TimeLogs:      timeLogRepo{v},
		Satisfactions: satisfactionRepo{v},
		History:       historyRepo{v},
		Catalog:       catalogRepo{v},
		Contracts:     contractRepo{v},
		Assets:        assetRepo{v},
		Companies:     companyRepo{v},
		Experts:       expertRepo{v},
	}
}

type view struct {
	store   *Store
	locking bool
}

func (v *view) do(fn func(st *state) error) error {
	if v.locking {
		v.store.mu.Lock()
		defer v.store.mu.Unlock()
	}
	return fn(v.store.state)
}

func newID() string {
	return uuid.NewString()
}

// SoftDelete marks any row as deleted so live reads stop returning it.
func (s *Store) SoftDelete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.deleted[id] = true
}

// AddCompany seeds a company profile.
func (s *Store) AddCompany(c domain.CompanyProfile) domain.CompanyProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = newID()
	}
	if c.UserID == "" {
		c.UserID = newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.state.companies[c.ID] = c
	return c
}

// AddExpert seeds an expert profile.
func (s *Store) AddExpert(e domain.ExpertProfile) domain.ExpertProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = newID()
	}
	if e.UserID == "" {
		e.UserID = newID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	s.state.experts[e.ID] = e
	return e
}

// LinkExpert seeds a company expert link, rejecting a second live primary link.
func (s *Store) LinkExpert(companyID, expertID string, primary bool) (domain.CompanyExpertLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if primary {
		for _, l := range s.state.links {
			if l.CompanyID == companyID && l.IsPrimary && s.state.live(l.ID) {
				return domain.CompanyExpertLink{}, ErrSecondPrimary
			}
		}
	}
	link := domain.CompanyExpertLink{ID: newID(), CompanyID: companyID, ExpertID: expertID, IsPrimary: primary}
	s.state.links = append(s.state.links, link)
	return link, nil
}

// AddAsset seeds an asset.
func (s *Store) AddAsset(a domain.Asset) domain.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = newID()
	}
	s.state.assets[a.ID] = a
	return a
}

// AddService seeds a catalog item after checking its SLA ordering.
func (s *Store) AddService(item domain.ServiceCatalogItem) (domain.ServiceCatalogItem, error) {
	if err := item.Validate(); err != nil {
		return domain.ServiceCatalogItem{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == "" {
		item.ID = newID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now()
	}
	s.state.services[item.ID] = item
	return item, nil
}

// AddContract seeds a contract, rejecting a second live active contract.
func (s *Store) AddContract(c domain.Contract) (domain.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.IsActive {
		for id, existing := range s.state.contracts {
			if existing.CompanyID == c.CompanyID && existing.IsActive && s.state.live(id) {
				return domain.Contract{}, ErrSecondActiveContract
			}
		}
	}
	if c.ID == "" {
		c.ID = newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.state.contracts[c.ID] = c
	return c, nil
}

// AddContractService seeds an SLA override after validating it against the service.
func (s *Store) AddContractService(cs domain.ContractService) (domain.ContractService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	service, ok := s.state.services[cs.ServiceID]
	if !ok {
		return domain.ContractService{}, pgx.ErrNoRows
	}
	if err := cs.Validate(service); err != nil {
		return domain.ContractService{}, err
	}
	if cs.ID == "" {
		cs.ID = newID()
	}
	s.state.contractServices = append(s.state.contractServices, cs)
	return cs, nil
}

type ticketRepo struct{ v *view }

func (r ticketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	return r.v.do(func(st *state) error {
		ticket.ID = newID()
		ticket.Version = 1
		ticket.UpdatedAt = ticket.CreatedAt
		st.tickets[ticket.ID] = *ticket
		return nil
	})
}

func (r ticketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	return r.v.do(func(st *state) error {
		stored, ok := st.tickets[ticket.ID]
		if !ok || !st.live(ticket.ID) || stored.Version != ticket.Version {
			return repository.ErrVersionConflict
		}
		// SLA snapshot columns are never rewritten.
		next := stored
		next.AssignedExpertID = ticket.AssignedExpertID
		next.Status = ticket.Status
		next.FirstResponseAt = ticket.FirstResponseAt
		next.ResolvedAt = ticket.ResolvedAt
		next.ClosedAt = ticket.ClosedAt
		next.FirstResponseBreached = ticket.FirstResponseBreached
		next.ResolutionBreached = ticket.ResolutionBreached
		next.Version = stored.Version + 1
		next.UpdatedAt = r.v.store.now()
		st.tickets[ticket.ID] = next

		ticket.Version = next.Version
		ticket.UpdatedAt = next.UpdatedAt
		return nil
	})
}

func (r ticketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	var out *domain.Ticket
	err := r.v.do(func(st *state) error {
		ticket, ok := st.tickets[id]
		if !ok || !st.live(id) {
			return pgx.ErrNoRows
		}
		out = &ticket
		return nil
	})
	return out, err
}

func (r ticketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	err := r.v.do(func(st *state) error {
		for id, ticket := range st.tickets {
			if !st.live(id) {
				continue
			}
			if filter.CompanyID != nil && ticket.CompanyID != *filter.CompanyID {
				continue
			}
			if filter.AssignedExpertID != nil && (ticket.AssignedExpertID == nil || *ticket.AssignedExpertID != *filter.AssignedExpertID) {
				continue
			}
			if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
				continue
			}
			out = append(out, ticket)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type messageRepo struct{ v *view }

func (r messageRepo) Create(_ context.Context, msg *domain.TicketMessage) error {
	return r.v.do(func(st *state) error {
		msg.ID = newID()
		st.messages = append(st.messages, *msg)
		return nil
	})
}

func (r messageRepo) ListByTicket(_ context.Context, ticketID string, includeInternal bool) ([]domain.TicketMessage, error) {
	var out []domain.TicketMessage
	err := r.v.do(func(st *state) error {
		for _, m := range st.messages {
			if m.TicketID != ticketID || !st.live(m.ID) {
				continue
			}
			if m.IsInternal && !includeInternal {
				continue
			}
			out = append(out, m)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

type timeLogRepo struct{ v *view }

func (r timeLogRepo) Create(_ context.Context, log *domain.TicketTimeLog) error {
	return r.v.do(func(st *state) error {
		log.ID = newID()
		st.timeLogs = append(st.timeLogs, *log)
		return nil
	})
}

func (r timeLogRepo) ListByTicket(_ context.Context, ticketID string, expertID *string) ([]domain.TicketTimeLog, error) {
	var out []domain.TicketTimeLog
	err := r.v.do(func(st *state) error {
		for i := len(st.timeLogs) - 1; i >= 0; i-- {
			l := st.timeLogs[i]
			if l.TicketID != ticketID || !st.live(l.ID) {
				continue
			}
			if expertID != nil && l.ExpertID != *expertID {
				continue
			}
			out = append(out, l)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].LoggedAt.After(out[j].LoggedAt) })
	return out, err
}

type satisfactionRepo struct{ v *view }

func (r satisfactionRepo) Create(_ context.Context, s *domain.TicketSatisfaction) error {
	return r.v.do(func(st *state) error {
		for _, existing := range st.satisfactions {
			if existing.TicketID == s.TicketID {
				return ErrDuplicateSatisfaction
			}
		}
		s.ID = newID()
		st.satisfactions = append(st.satisfactions, *s)
		return nil
	})
}

func (r satisfactionRepo) ExistsForTicket(_ context.Context, ticketID string) (bool, error) {
	var exists bool
	err := r.v.do(func(st *state) error {
		for _, s := range st.satisfactions {
			if s.TicketID == ticketID && st.live(s.ID) {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, err
}

func (r satisfactionRepo) ListByCompany(_ context.Context, companyID string) ([]domain.TicketSatisfaction, error) {
	var out []domain.TicketSatisfaction
	err := r.v.do(func(st *state) error {
		for i := len(st.satisfactions) - 1; i >= 0; i-- {
			s := st.satisfactions[i]
			if s.CompanyID == companyID && st.live(s.ID) {
				out = append(out, s)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

type historyRepo struct{ v *view }

func (r historyRepo) Create(_ context.Context, h *domain.TicketHistory) error {
	return r.v.do(func(st *state) error {
		h.ID = newID()
		st.history = append(st.history, *h)
		return nil
	})
}

func (r historyRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	var out []domain.TicketHistory
	err := r.v.do(func(st *state) error {
		for _, h := range st.history {
			if h.TicketID == ticketID {
				out = append(out, h)
			}
		}
		return nil
	})
	return out, err
}

type catalogRepo struct{ v *view }

func (r catalogRepo) GetServiceByID(_ context.Context, id string) (*domain.ServiceCatalogItem, error) {
	var out *domain.ServiceCatalogItem
	err := r.v.do(func(st *state) error {
		item, ok := st.services[id]
		if !ok || !st.live(id) {
			return pgx.ErrNoRows
		}
		out = &item
		return nil
	})
	return out, err
}

type contractRepo struct{ v *view }

func (r contractRepo) GetActiveForCompany(_ context.Context, companyID string) (*domain.Contract, error) {
	var out *domain.Contract
	err := r.v.do(func(st *state) error {
		for id, c := range st.contracts {
			if c.CompanyID == companyID && c.IsActive && st.live(id) {
				c := c
				out = &c
				return nil
			}
		}
		return pgx.ErrNoRows
	})
	return out, err
}

func (r contractRepo) GetServiceOverride(_ context.Context, contractID, serviceID string) (*domain.ContractService, error) {
	var out *domain.ContractService
	err := r.v.do(func(st *state) error {
		for _, cs := range st.contractServices {
			if cs.ContractID == contractID && cs.ServiceID == serviceID && st.live(cs.ID) {
				cs := cs
				out = &cs
				return nil
			}
		}
		return pgx.ErrNoRows
	})
	return out, err
}

type assetRepo struct{ v *view }

func (r assetRepo) GetByID(_ context.Context, id string) (*domain.Asset, error) {
	var out *domain.Asset
	err := r.v.do(func(st *state) error {
		asset, ok := st.assets[id]
		if !ok || !st.live(id) {
			return pgx.ErrNoRows
		}
		out = &asset
		return nil
	})
	return out, err
}

type companyRepo struct{ v *view }

func (r companyRepo) GetByID(_ context.Context, id string) (*domain.CompanyProfile, error) {
	return r.find(func(c domain.CompanyProfile) bool { return c.ID == id })
}

func (r companyRepo) GetByUserID(_ context.Context, userID string) (*domain.CompanyProfile, error) {
	return r.find(func(c domain.CompanyProfile) bool { return c.UserID == userID })
}

func (r companyRepo) find(match func(domain.CompanyProfile) bool) (*domain.CompanyProfile, error) {
	var out *domain.CompanyProfile
	err := r.v.do(func(st *state) error {
		for id, c := range st.companies {
			if match(c) && st.live(id) {
				c := c
				out = &c
				return nil
			}
		}
		return pgx.ErrNoRows
	})
	return out, err
}

type expertRepo struct{ v *view }

func (r expertRepo) GetByID(_ context.Context, id string) (*domain.ExpertProfile, error) {
	return r.find(func(e domain.ExpertProfile) bool { return e.ID == id })
}

func (r expertRepo) GetByUserID(_ context.Context, userID string) (*domain.ExpertProfile, error) {
	return r.find(func(e domain.ExpertProfile) bool { return e.UserID == userID })
}

func (r expertRepo) find(match func(domain.ExpertProfile) bool) (*domain.ExpertProfile, error) {
	var out *domain.ExpertProfile
	err := r.v.do(func(st *state) error {
		for id, e := range st.experts {
			if match(e) && st.live(id) {
				e := e
				out = &e
				return nil
			}
		}
		return pgx.ErrNoRows
	})
	return out, err
}

func (r expertRepo) IsLinked(_ context.Context, companyID, expertID string) (bool, error) {
	var linked bool
	err := r.v.do(func(st *state) error {
		for _, l := range st.links {
			if l.CompanyID == companyID && l.ExpertID == expertID && st.live(l.ID) {
				linked = true
				return nil
			}
		}
		return nil
	})
	return linked, err
}

func (r expertRepo) GetPrimaryLink(_ context.Context, companyID string) (*domain.CompanyExpertLink, error) {
	var out *domain.CompanyExpertLink
	err := r.v.do(func(st *state) error {
		for _, l := range st.links {
			if l.CompanyID == companyID && l.IsPrimary && st.live(l.ID) {
				l := l
				out = &l
				return nil
			}
		}
		return pgx.ErrNoRows
	})
	return out, err
}
