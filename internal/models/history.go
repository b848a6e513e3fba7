package models

import (
	"fmt"
	"time"
)

// ContentKind identifies which catalogue a search ran against.
type ContentKind string

const (
	KindMovie  ContentKind = "movie"
	KindTV     ContentKind = "tv"
	KindPerson ContentKind = "person"
)

// ParseContentKind validates a raw kind from a URL or query string.
func ParseContentKind(s string) (ContentKind, error) {
	switch k := ContentKind(s); k {
	case KindMovie, KindTV, KindPerson:
		return k, nil
	default:
		return "", fmt.Errorf("unknown content kind %q", s)
	}
}

// HistoryEntry is one recorded search result
type HistoryEntry struct {
	ID         int64       `json:"id" db:"content_id"`
	Image      string      `json:"image" db:"image"`
	Title      string      `json:"title" db:"title"`
	SearchType ContentKind `json:"searchType" db:"search_type"`
	CreatedAt  time.Time   `json:"createdAt" db:"created_at"`
}
