package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/streamline-io/streamline/internal/models"
	"github.com/streamline-io/streamline/internal/tmdb"
)

var ErrNoResults = errors.New("no results found")

// HistoryStore is the history half of the credential store
type HistoryStore interface {
	AppendHistory(ctx context.Context, userID string, entry models.HistoryEntry) error
	RemoveHistory(ctx context.Context, userID string, contentID int64) error
	ListHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error)
}

// Catalog runs searches against the metadata API
type Catalog interface {
	Search(ctx context.Context, kind models.ContentKind, query string) (*tmdb.Page, error)
}

type Service struct {
	catalog Catalog
	history HistoryStore
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(catalog Catalog, history HistoryStore, logger *slog.Logger) *Service {
	return &Service{
		catalog: catalog,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// Search queries the catalogue and records the top hit in the user's
// history. The full result list is returned.
func (s *Service) Search(ctx context.Context, userID string, kind models.ContentKind, query string) ([]tmdb.Result, error) {
	page, err := s.catalog.Search(ctx, kind, query)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", kind, err)
	}
	if len(page.Results) == 0 {
		return nil, ErrNoResults
	}

	entry := historyEntry(kind, page.Results[0], s.now().UTC())
	if err := s.history.AppendHistory(ctx, userID, entry); err != nil {
		return nil, err
	}

	s.logger.Debug("search recorded", "user_id", userID, "kind", kind, "content_id", entry.ID)
	return page.Results, nil
}

func historyEntry(kind models.ContentKind, top tmdb.Result, now time.Time) models.HistoryEntry {
	entry := models.HistoryEntry{
		ID:         top.ID(),
		SearchType: kind,
		CreatedAt:  now,
	}
	switch kind {
	case models.KindPerson:
		entry.Image = top.String("profile_path")
		entry.Title = top.String("name")
	case models.KindTV:
		entry.Image = top.String("poster_path")
		entry.Title = top.String("name")
	default:
		entry.Image = top.String("poster_path")
		entry.Title = top.String("title")
	}
	return entry
}

// List returns the user's history in insertion order.
func (s *Service) List(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	return s.history.ListHistory(ctx, userID)
}

// Delete removes every history entry with the given content id.
func (s *Service) Delete(ctx context.Context, userID string, contentID int64) error {
	return s.history.RemoveHistory(ctx, userID, contentID)
}
