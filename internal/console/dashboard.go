package console

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rizzource/rizzource-backend/pkg/model"
)

// ErrNotAdmin is the hard gate at the shell boundary: without the
// admin capability no dashboard exists and no data calls are issued.
var ErrNotAdmin = errors.New("admin capability required")

// AdminSession is the typed capability produced once at the shell
// boundary and passed into every controller, instead of re-deriving
// the role ad hoc.
type AdminSession struct {
	UserID uuid.UUID
	Email  string
}

// NewAdminSession checks the role claim and mints the capability.
func NewAdminSession(userID uuid.UUID, email string, role model.Role) (AdminSession, error) {
	if role != model.RoleAdmin {
		return AdminSession{}, ErrNotAdmin
	}
	return AdminSession{UserID: userID, Email: email}, nil
}

// Dashboard is the console shell: it owns one controller per entity,
// the aggregate stats, and the active-section index cycled by
// previous/next controls.
type Dashboard struct {
	Session AdminSession

	gw          Gateway
	log         *zap.Logger
	sections    []Entity
	controllers map[Entity]*Controller

	mu     sync.Mutex
	active int
	stats  map[Entity]int
}

func NewDashboard(session AdminSession, gw Gateway, log *zap.Logger, pageSize int) *Dashboard {
	sections := Entities()
	controllers := make(map[Entity]*Controller, len(sections))
	for _, e := range sections {
		controllers[e] = NewController(e, gw, log, pageSize)
	}
	return &Dashboard{
		Session:     session,
		gw:          gw,
		log:         log,
		sections:    sections,
		controllers: controllers,
		stats:       make(map[Entity]int),
	}
}

// Load fetches the aggregate counts and the first page of every entity
// in parallel.
func (d *Dashboard) Load(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := d.RefreshStats(ctx)
		return err
	})
	for _, e := range d.sections {
		c := d.controllers[e]
		g.Go(func() error {
			return c.List(ctx, 1)
		})
	}
	return g.Wait()
}

// Controller returns the table controller for one entity.
func (d *Dashboard) Controller(entity Entity) (*Controller, error) {
	c, ok := d.controllers[entity]
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
	return c, nil
}

// RefreshStats re-reads the per-entity totals from the gateway.
func (d *Dashboard) RefreshStats(ctx context.Context) (map[Entity]int, error) {
	counts, err := d.gw.Counts(ctx)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.stats = counts
	d.mu.Unlock()
	return counts, nil
}

// Stats returns the last loaded per-entity totals.
func (d *Dashboard) Stats() map[Entity]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[Entity]int, len(d.stats))
	for k, v := range d.stats {
		out[k] = v
	}
	return out
}

// ActiveSection returns the currently selected entity section.
func (d *Dashboard) ActiveSection() Entity {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sections[d.active]
}

// Next advances the active section, wrapping past the last one.
func (d *Dashboard) Next() Entity {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = (d.active + 1) % len(d.sections)
	return d.sections[d.active]
}

// Prev steps the active section back, wrapping before the first one.
func (d *Dashboard) Prev() Entity {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = (d.active - 1 + len(d.sections)) % len(d.sections)
	return d.sections[d.active]
}

// Select jumps straight to a section by zero-based index, as a stat
// tile click does.
func (d *Dashboard) Select(i int) (Entity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.sections) {
		return "", fmt.Errorf("section index %d out of range", i)
	}
	d.active = i
	return d.sections[d.active], nil
}
