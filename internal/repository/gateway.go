package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rizzource/rizzource-backend/internal/console"
	"github.com/rizzource/rizzource-backend/pkg/model"
)

// ConsoleGateway adapts the typed repository to the console's Gateway
// interface, mapping each console entity onto its table and fixed
// filter (mentees and mentors are the same table split by role).
type ConsoleGateway struct {
	repo *Repository
}

func NewConsoleGateway(repo *Repository) *ConsoleGateway {
	return &ConsoleGateway{repo: repo}
}

func (g *ConsoleGateway) List(ctx context.Context, entity console.Entity, offset, limit int) (console.PageResult, error) {
	switch entity {
	case console.EntityMentees:
		rows, total, err := g.repo.ListProfiles(ctx, model.RoleMentee, limit, offset)
		return profilePage(rows, total), err
	case console.EntityMentors:
		rows, total, err := g.repo.ListProfiles(ctx, model.RoleMentor, limit, offset)
		return profilePage(rows, total), err
	case console.EntityEvents:
		rows, total, err := g.repo.ListEvents(ctx, limit, offset)
		return eventPage(rows, total), err
	case console.EntityOutlines:
		rows, total, err := g.repo.ListOutlines(ctx, limit, offset)
		return outlinePage(rows, total), err
	case console.EntityCompanies:
		rows, total, err := g.repo.ListCompanies(ctx, limit, offset)
		return companyPage(rows, total), err
	}
	return console.PageResult{}, fmt.Errorf("unknown entity %q", entity)
}

func (g *ConsoleGateway) Search(ctx context.Context, entity console.Entity, query string, offset, limit int) (console.PageResult, error) {
	switch entity {
	case console.EntityMentees:
		rows, total, err := g.repo.SearchProfiles(ctx, model.RoleMentee, query, limit, offset)
		return profilePage(rows, total), err
	case console.EntityMentors:
		rows, total, err := g.repo.SearchProfiles(ctx, model.RoleMentor, query, limit, offset)
		return profilePage(rows, total), err
	case console.EntityEvents:
		rows, total, err := g.repo.SearchEvents(ctx, query, limit, offset)
		return eventPage(rows, total), err
	case console.EntityOutlines:
		rows, total, err := g.repo.SearchOutlines(ctx, query, limit, offset)
		return outlinePage(rows, total), err
	case console.EntityCompanies:
		rows, total, err := g.repo.SearchCompanies(ctx, query, limit, offset)
		return companyPage(rows, total), err
	}
	return console.PageResult{}, fmt.Errorf("unknown entity %q", entity)
}

func (g *ConsoleGateway) Insert(ctx context.Context, entity console.Entity, fields map[string]any) error {
	switch entity {
	case console.EntityEvents:
		createdBy, err := uuid.Parse(str(fields, "created_by"))
		if err != nil {
			return fmt.Errorf("invalid created_by: %w", err)
		}
		ev := &model.Event{
			Title:       str(fields, "title"),
			Date:        str(fields, "date"),
			Month:       str(fields, "month"),
			MonthIndex:  num(fields, "month_index"),
			Year:        num(fields, "year"),
			Description: optStr(fields, "description"),
			Location:    optStr(fields, "location"),
			Time:        optStr(fields, "time"),
			Priority:    boolean(fields, "priority"),
			CreatedBy:   createdBy,
		}
		_, err = g.repo.CreateEvent(ctx, ev)
		return err
	case console.EntityCompanies:
		c := &model.Company{
			Name:        str(fields, "name"),
			Description: optStr(fields, "description"),
			Website:     optStr(fields, "website"),
			OwnerName:   str(fields, "owner_name"),
			OwnerEmail:  str(fields, "owner_email"),
		}
		_, err := g.repo.CreateCompanyWithOwner(ctx, c, str(fields, "owner_password_hash"))
		return err
	case console.EntityMentees, console.EntityMentors:
		return fmt.Errorf("profiles are created at signup, not through the console")
	case console.EntityOutlines:
		return fmt.Errorf("outlines are created through the upload flow")
	}
	return fmt.Errorf("unknown entity %q", entity)
}

func (g *ConsoleGateway) Update(ctx context.Context, entity console.Entity, id string, fields map[string]any) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	switch entity {
	case console.EntityEvents:
		return g.repo.UpdateEvent(ctx, uid, fields)
	case console.EntityOutlines:
		return g.repo.UpdateOutline(ctx, uid, fields)
	case console.EntityCompanies:
		return g.repo.UpdateCompany(ctx, uid, fields)
	case console.EntityMentees, console.EntityMentors:
		return fmt.Errorf("profiles are read-only in the console")
	}
	return fmt.Errorf("unknown entity %q", entity)
}

func (g *ConsoleGateway) Delete(ctx context.Context, entity console.Entity, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	switch entity {
	case console.EntityMentees, console.EntityMentors:
		return g.repo.DeleteProfile(ctx, uid)
	case console.EntityEvents:
		return g.repo.DeleteEvent(ctx, uid)
	case console.EntityOutlines:
		return g.repo.DeleteOutline(ctx, uid)
	case console.EntityCompanies:
		return g.repo.DeleteCompany(ctx, uid)
	}
	return fmt.Errorf("unknown entity %q", entity)
}

func (g *ConsoleGateway) Counts(ctx context.Context) (map[console.Entity]int, error) {
	counts := make(map[console.Entity]int, 5)

	mentees, err := g.repo.CountProfiles(ctx, model.RoleMentee)
	if err != nil {
		return nil, err
	}
	counts[console.EntityMentees] = mentees

	mentors, err := g.repo.CountProfiles(ctx, model.RoleMentor)
	if err != nil {
		return nil, err
	}
	counts[console.EntityMentors] = mentors

	events, err := g.repo.CountEvents(ctx)
	if err != nil {
		return nil, err
	}
	counts[console.EntityEvents] = events

	outlines, err := g.repo.CountOutlines(ctx)
	if err != nil {
		return nil, err
	}
	counts[console.EntityOutlines] = outlines

	companies, err := g.repo.CountCompanies(ctx)
	if err != nil {
		return nil, err
	}
	counts[console.EntityCompanies] = companies

	return counts, nil
}

func (g *ConsoleGateway) RecordExport(ctx context.Context, entity console.Entity) error {
	return g.repo.RecordExport(ctx, string(entity))
}

func profilePage(rows []model.Profile, total int) console.PageResult {
	out := make([]console.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	return console.PageResult{Rows: out, Total: total}
}

func eventPage(rows []model.Event, total int) console.PageResult {
	out := make([]console.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	return console.PageResult{Rows: out, Total: total}
}

func outlinePage(rows []model.Outline, total int) console.PageResult {
	out := make([]console.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	return console.PageResult{Rows: out, Total: total}
}

func companyPage(rows []model.Company, total int) console.PageResult {
	out := make([]console.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	return console.PageResult{Rows: out, Total: total}
}

func str(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func optStr(fields map[string]any, key string) *string {
	if s, ok := fields[key].(*string); ok {
		return s
	}
	if s, ok := fields[key].(string); ok && s != "" {
		return &s
	}
	return nil
}

func num(fields map[string]any, key string) int {
	n, _ := fields[key].(int)
	return n
}

func boolean(fields map[string]any, key string) bool {
	b, _ := fields[key].(bool)
	return b
}
