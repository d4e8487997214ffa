package models

import (
	"database/sql"
	"time"
)

// JournalEntry is the application representation of an entry.
//
// Date is a calendar date formatted as YYYY-MM-DD. An empty ID means the
// entry has not been persisted yet.
type JournalEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Date       string    `json:"date"`
	Tags       []string  `json:"tags"`
	Reflection string    `json:"ai_reflection,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EntryRecord is the storage representation of an entry.
//
// EntryDate is midnight UTC of the entry's calendar date. Tags holds a JSON
// array. Reflection is null until a reflection has been generated.
type EntryRecord struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	EntryDate  time.Time      `json:"entry_date"`
	Tags       string         `json:"tags"`
	Reflection sql.NullString `json:"ai_reflection"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
