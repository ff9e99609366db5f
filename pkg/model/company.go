package model

import (
	"time"

	"github.com/google/uuid"
)

// Company is an employer account provisioned together with its owner
// profile in one transaction.
type Company struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Website     *string   `json:"website" db:"website"`
	OwnerName   string    `json:"owner_name" db:"owner_name"`
	OwnerEmail  string    `json:"owner_email" db:"owner_email"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (c Company) RecordID() string { return c.ID.String() }

func (c Company) Columns() []string {
	return []string{"id", "name", "description", "website", "owner_name", "owner_email", "created_at"}
}

func (c Company) Values() []any {
	return []any{
		c.ID.String(), c.Name, deref(c.Description), deref(c.Website),
		c.OwnerName, c.OwnerEmail, c.CreatedAt.Format(time.RFC3339),
	}
}

type CreateCompanyReq struct {
	Name          string  `json:"name" binding:"required"`
	Description   *string `json:"description"`
	Website       *string `json:"website"`
	OwnerName     string  `json:"owner_name" binding:"required"`
	OwnerEmail    string  `json:"owner_email" binding:"required,email"`
	OwnerPassword string  `json:"owner_password" binding:"required,min=6"`
}

type UpdateCompanyReq struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Website     *string `json:"website,omitempty"`
	OwnerName   *string `json:"owner_name,omitempty"`
}

func (r *UpdateCompanyReq) Fields() map[string]any {
	out := map[string]any{}
	if r.Name != nil {
		out["name"] = *r.Name
	}
	if r.Description != nil {
		out["description"] = *r.Description
	}
	if r.Website != nil {
		out["website"] = *r.Website
	}
	if r.OwnerName != nil {
		out["owner_name"] = *r.OwnerName
	}
	return out
}
