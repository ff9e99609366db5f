package model

import (
	"time"

	"github.com/google/uuid"
)

// Outline is an uploaded course outline. File metadata and the
// download/rating aggregates are owned by the upload and rating flows;
// the admin console may only touch Title, Topic, Year and Professor.
type Outline struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Topic       string    `json:"topic" db:"topic"`
	Year        string    `json:"year" db:"year"`
	Professor   string    `json:"professor" db:"professor"`
	FileName    string    `json:"file_name" db:"file_name"`
	FileURL     string    `json:"file_url" db:"file_url"`
	FileSize    int64     `json:"file_size" db:"file_size"`
	FileType    string    `json:"file_type" db:"file_type"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	MentorEmail *string   `json:"mentor_email" db:"mentor_email"`
	Downloads   int       `json:"downloads" db:"downloads"`
	RatingAvg   float64   `json:"rating_avg" db:"rating_avg"`
	RatingCount int       `json:"rating_count" db:"rating_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (o Outline) RecordID() string { return o.ID.String() }

func (o Outline) Columns() []string {
	return []string{"id", "title", "topic", "year", "professor", "file_name", "file_size", "file_type", "downloads", "rating_avg", "rating_count", "created_at"}
}

func (o Outline) Values() []any {
	return []any{
		o.ID.String(), o.Title, o.Topic, o.Year, o.Professor,
		o.FileName, o.FileSize, o.FileType, o.Downloads, o.RatingAvg,
		o.RatingCount, o.CreatedAt.Format(time.RFC3339),
	}
}

type CreateOutlineReq struct {
	Title       string  `form:"title" binding:"required"`
	Topic       string  `form:"topic" binding:"required"`
	Year        string  `form:"year" binding:"required"`
	Professor   string  `form:"professor" binding:"required"`
	MentorEmail *string `form:"mentor_email"`
}

// UpdateOutlineReq carries the only fields the console may edit. File
// and rating columns are deliberately absent.
type UpdateOutlineReq struct {
	Title     *string `json:"title,omitempty"`
	Topic     *string `json:"topic,omitempty"`
	Year      *string `json:"year,omitempty"`
	Professor *string `json:"professor,omitempty"`
}

func (r *UpdateOutlineReq) Fields() map[string]any {
	out := map[string]any{}
	if r.Title != nil {
		out["title"] = *r.Title
	}
	if r.Topic != nil {
		out["topic"] = *r.Topic
	}
	if r.Year != nil {
		out["year"] = *r.Year
	}
	if r.Professor != nil {
		out["professor"] = *r.Professor
	}
	return out
}
