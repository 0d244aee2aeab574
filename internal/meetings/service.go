package meetings

import (
	"log/slog"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/cache"
	"github.com/starford/ansuz/internal/models"
)

// Index is the optional accelerated-search backend. The service is
// fully functional with a nil index: search then degrades to a linear
// scan with identical results.
type Index interface {
	// Sync replaces the indexed rows with the given extraction output.
	Sync(records []models.Meeting) error
	// Search returns candidate meeting ids for a free-text query. The
	// candidate set must be a superset of the records the exact
	// case-insensitive substring predicate matches; the service applies
	// that predicate to the candidates afterwards.
	Search(query string, limit int) ([]string, error)
}

// Service exposes the read-only meeting operations over a cache loader
// and an optional search index. All operations recompute the normalized
// collection from the current snapshot; Refresh is the sole effectful
// operation.
type Service struct {
	loader *cache.Loader
	index  Index
	logger *slog.Logger
}

// NewService creates a service. index may be nil.
func NewService(loader *cache.Loader, index Index, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{loader: loader, index: index, logger: logger}
}

// Page is one slice of a filtered listing plus the cursor to resume
// from, empty when the listing is exhausted.
type Page struct {
	Items      []models.MeetingSummary `json:"items"`
	NextCursor string                  `json:"next_cursor,omitempty"`
}

// ListParams are the inputs of List.
type ListParams struct {
	Query        string
	From         string
	To           string
	Participants []string
	Limit        int
	Cursor       string
}

// SearchParams are the inputs of Search.
type SearchParams struct {
	Query        string
	Participants []string
	Platform     string
	After        string
	Before       string
	Limit        int
	Cursor       string
}

// records loads the current snapshot and extracts the normalized
// collection from it.
func (s *Service) records() ([]models.Meeting, error) {
	snap, err := s.loader.Load(false)
	if err != nil {
		return nil, err
	}
	return Extract(snap.State()), nil
}

// List returns a page of meeting summaries matching the filter.
func (s *Service) List(p ListParams) (*Page, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	filter := Filter{
		Query:        p.Query,
		Participants: p.Participants,
		From:         p.From,
		To:           p.To,
	}
	return page(filter.Apply(records), p.Limit, p.Cursor)
}

// Get returns the full record for one meeting id. The transcript turn
// sequence is attached only when requested; it is rebuilt on demand and
// never persisted.
func (s *Service) Get(id string, includeTranscript bool) (*models.Meeting, error) {
	if id == "" {
		return nil, apperr.BadRequest("'id' is required", nil)
	}
	snap, err := s.loader.Load(false)
	if err != nil {
		return nil, err
	}
	m, ok := Find(Extract(snap.State()), id)
	if !ok {
		return nil, apperr.NotFound("meeting not found", map[string]any{"id": id})
	}
	if includeTranscript && m.HasTranscript {
		m.Transcript = BuildTurns(Segments(snap.State(), id))
	}
	return &m, nil
}

// Search returns a page of summaries matching a free-text query plus
// optional filters. When an index is configured it pre-selects
// candidate ids — a superset of the substring matches per the Index
// contract — and the exact filter predicate is then applied to the
// candidates, so results are identical with or without the index. An
// index failure degrades to the linear scan.
func (s *Service) Search(p SearchParams) (*Page, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	if s.index != nil && p.Query != "" {
		if ids, err := s.index.Search(p.Query, 0); err == nil {
			records = selectByID(records, ids)
		} else {
			s.logger.Warn("search: index unavailable, falling back to scan",
				slog.String("error", err.Error()))
		}
	}
	filter := Filter{
		Query:        p.Query,
		Participants: p.Participants,
		Platform:     p.Platform,
		From:         p.After,
		To:           p.Before,
	}
	return page(filter.Apply(records), p.Limit, p.Cursor)
}

// ExportMarkdown renders one meeting to Markdown.
func (s *Service) ExportMarkdown(id string, sections []string) (string, error) {
	if id == "" {
		return "", apperr.BadRequest("'id' is required", nil)
	}
	m, err := s.Get(id, false)
	if err != nil {
		return "", err
	}
	return RenderMarkdown(*m, sections), nil
}

// StatsResult is the aggregate statistics payload.
type StatsResult struct {
	ByPeriod []PeriodCount `json:"by_period"`
}

// Stats counts meetings per day or week over an optional window.
func (s *Service) Stats(window, groupBy string) (*StatsResult, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	return &StatsResult{
		ByPeriod: CountByPeriod(records, window, groupBy, time.Now()),
	}, nil
}

// Status describes the cache and the active search profile.
type Status struct {
	cache.Info
	Profile string `json:"profile"`
}

// CacheStatus reports cache path, size, last load time, and profile.
func (s *Service) CacheStatus() *Status {
	profile := "linear"
	if s.index != nil {
		profile = "sqlite"
	}
	return &Status{Info: s.loader.Info(), Profile: profile}
}

// RefreshResult reports the outcome of an explicit cache reload.
type RefreshResult struct {
	MeetingCount int        `json:"meeting_count"`
	Cache        cache.Info `json:"cache"`
}

// Refresh forces a reload of the cache and, when an index is
// configured, resynchronizes it against the fresh extraction. A reload
// failure leaves the previous snapshot intact and is surfaced as an
// error rather than stale data.
func (s *Service) Refresh() (*RefreshResult, error) {
	snap, err := s.loader.Load(true)
	if err != nil {
		return nil, err
	}
	records := Extract(snap.State())
	if s.index != nil {
		if err := s.index.Sync(records); err != nil {
			s.logger.Warn("refresh: index sync failed", slog.String("error", err.Error()))
		}
	}
	return &RefreshResult{
		MeetingCount: len(records),
		Cache:        s.loader.Info(),
	}, nil
}

// SyncIndex extracts from the current snapshot and synchronizes the
// index. It is a no-op without an index.
func (s *Service) SyncIndex() error {
	if s.index == nil {
		return nil
	}
	records, err := s.records()
	if err != nil {
		return err
	}
	return s.index.Sync(records)
}

func page(filtered []models.Meeting, limit int, cursor string) (*Page, error) {
	summaries := make([]models.MeetingSummary, len(filtered))
	for i, m := range filtered {
		summaries[i] = m.MeetingSummary
	}
	items, next, err := Paginate(summaries, limit, cursor)
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, NextCursor: next}, nil
}

func selectByID(records []models.Meeting, ids []string) []models.Meeting {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	out := make([]models.Meeting, 0, len(ids))
	for _, m := range records {
		if _, ok := keep[m.ID]; ok {
			out = append(out, m)
		}
	}
	return out
}
