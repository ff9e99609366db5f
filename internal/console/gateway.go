package console

import "context"

// Entity identifies one managed collection of the admin console.
type Entity string

const (
	EntityMentees   Entity = "mentees"
	EntityMentors   Entity = "mentors"
	EntityEvents    Entity = "events"
	EntityOutlines  Entity = "outlines"
	EntityCompanies Entity = "companies"
)

// Entities returns the console sections in display order.
func Entities() []Entity {
	return []Entity{EntityMentees, EntityMentors, EntityEvents, EntityOutlines, EntityCompanies}
}

// Record is one visible row of an entity view. Columns and Values are
// the raw field set used verbatim by the spreadsheet export.
type Record interface {
	RecordID() string
	Columns() []string
	Values() []any
}

// PageResult is one page of rows plus the exact server-side total.
type PageResult struct {
	Rows  []Record
	Total int
}

// Gateway is the remote data store the console orchestrates. Every
// call carries the store's own transactional guarantees; the console
// never caches a write and re-fetches after each mutation.
type Gateway interface {
	// List returns rows ordered by creation time descending within
	// [offset, offset+limit) under the entity's fixed filter, together
	// with an exact total count.
	List(ctx context.Context, entity Entity, offset, limit int) (PageResult, error)
	// Search returns a case-insensitive substring match over the
	// entity's searchable fields (OR-combined), paginated
	// independently from List.
	Search(ctx context.Context, entity Entity, query string, offset, limit int) (PageResult, error)
	Insert(ctx context.Context, entity Entity, fields map[string]any) error
	// Update writes only the whitelisted field subset for the entity.
	Update(ctx context.Context, entity Entity, id string, fields map[string]any) error
	Delete(ctx context.Context, entity Entity, id string) error
	// Counts returns the aggregate row count per entity.
	Counts(ctx context.Context) (map[Entity]int, error)
	// RecordExport bumps the remote export counter for the entity. It
	// is relied on only for its side effect.
	RecordExport(ctx context.Context, entity Entity) error
}
