package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/models"
)

// NormalizeTags trims each tag, drops blanks and duplicates and sorts the
// rest. The result is never nil.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ParseDate reads a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(common.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", common.ErrValidation, s)
	}
	return d, nil
}

func toRecord(e *models.JournalEntry, ownerUserID string) (*models.EntryRecord, error) {
	date, err := ParseDate(e.Date)
	if err != nil {
		return nil, err
	}

	tags, err := json.Marshal(NormalizeTags(e.Tags))
	if err != nil {
		return nil, err
	}

	reflection := strings.TrimSpace(e.Reflection)

	return &models.EntryRecord{
		ID:         e.ID,
		UserID:     ownerUserID,
		Title:      strings.TrimSpace(e.Title),
		Content:    e.Content,
		EntryDate:  date,
		Tags:       string(tags),
		Reflection: sql.NullString{String: reflection, Valid: reflection != ""},
	}, nil
}

func fromRecord(r *models.EntryRecord) models.JournalEntry {
	tags := []string{}
	if r.Tags != "" {
		// A corrupt tag column degrades to no tags rather than hiding the entry.
		if err := json.Unmarshal([]byte(r.Tags), &tags); err != nil || tags == nil {
			tags = []string{}
		}
	}

	return models.JournalEntry{
		ID:         r.ID,
		UserID:     r.UserID,
		Title:      r.Title,
		Content:    r.Content,
		Date:       r.EntryDate.UTC().Format(common.DateLayout),
		Tags:       tags,
		Reflection: r.Reflection.String,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
