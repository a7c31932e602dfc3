package update

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"chapter-sync/core/logger"
	"chapter-sync/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// ErrUnknownSource is returned when no Source is registered for a manga.
var ErrUnknownSource = errors.New("unknown chapter source")

const subscriberBuffer = 256

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSources registers primary chapter sources by name.
func WithSources(sources ...Source) Option {
	return func(s *Scheduler) {
		for _, src := range sources {
			s.sources[src.Name()] = src
		}
	}
}

// WithMergedSource sets the source used for manga with a merged linkage.
func WithMergedSource(src Source) Option {
	return func(s *Scheduler) {
		s.merged = src
	}
}

// WithDownloads enables download handling for new and removed chapters.
func WithDownloads(d Downloader) Option {
	return func(s *Scheduler) {
		s.downloads = d
	}
}

// Scheduler runs library update campaigns.
// A campaign fetches, reconciles and persists the chapters of every queued manga.
// Manga are grouped by source, groups run in parallel, manga inside a group run in order.
type Scheduler struct {
	cfg        Config
	library    Library
	reconciler *reconcile.Reconciler
	sources    map[string]Source
	merged     Source
	downloads  Downloader
	logger     *zap.Logger

	flight singleflight.Group
	locks  *MangaLocks

	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
	finished chan struct{}
	pending  map[string][]reconcile.Manga
	active   map[string]bool
	queued   map[int64]struct{}
	total    int
	done     int

	subMu  sync.Mutex
	subs   map[int]chan Event
	nextID int
}

// NewScheduler creates an idle scheduler.
func NewScheduler(cfg Config, library Library, reconciler *reconcile.Reconciler, logger *zap.Logger, opts ...Option) *Scheduler {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}
	s := &Scheduler{
		cfg:        cfg,
		library:    library,
		reconciler: reconciler,
		sources:    make(map[string]Source),
		logger:     logger,
		pending:    make(map[string][]reconcile.Manga),
		active:     make(map[string]bool),
		queued:     make(map[int64]struct{}),
		subs:       make(map[int]chan Event),
		locks:      NewMangaLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start queues the library favorites for update and starts a campaign if none is running.
// It returns the number of manga added to the campaign.
func (s *Scheduler) Start(ctx context.Context) (int, error) {
	manga, err := s.library.FavoriteManga(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load library: %w", err)
	}
	return s.Enqueue(s.Select(manga)...), nil
}

// Select filters and ranks manga for a campaign according to the configuration.
func (s *Scheduler) Select(manga []reconcile.Manga) []reconcile.Manga {
	out := make([]reconcile.Manga, 0, len(manga))
	for _, m := range manga {
		if s.cfg.OnlyNonCompleted && m.Status == reconcile.StatusCompleted {
			continue
		}
		out = append(out, m)
	}
	Rank(out, s.cfg.Ranking)
	return out
}

// Rank sorts manga in place by the named ranking scheme.
func Rank(manga []reconcile.Manga, ranking string) {
	switch ranking {
	case RankingLastUpdate:
		sort.SliceStable(manga, func(i, j int) bool {
			return manga[i].LastUpdate.Before(manga[j].LastUpdate)
		})
	default:
		sort.SliceStable(manga, func(i, j int) bool {
			return strings.ToLower(manga[i].Title) < strings.ToLower(manga[j].Title)
		})
	}
}

// Enqueue adds manga to the running campaign, or starts a new one.
// Manga already part of the campaign are ignored. It returns the number of manga added.
func (s *Scheduler) Enqueue(manga ...reconcile.Manga) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, m := range manga {
		if _, ok := s.queued[m.ID]; ok {
			continue
		}
		s.queued[m.ID] = struct{}{}
		s.pending[m.Source] = append(s.pending[m.Source], m)
		added++
	}
	s.total += added

	if added == 0 || s.running {
		return added
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.running = true
	s.cancel = cancel
	s.finished = make(chan struct{})
	s.emit(Event{Type: EventCampaignStarted, Total: s.total})

	go s.run(ctx)
	return added
}

// Cancel stops the running campaign. Manga not started yet are skipped.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Wait blocks until the running campaign finishes or ctx is done.
func (s *Scheduler) Wait(ctx context.Context) error {
	s.mu.Lock()
	finished := s.finished
	s.mu.Unlock()

	if finished == nil {
		return nil
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns a snapshot of the campaign progress.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := 0
	for _, list := range s.pending {
		pending += len(list)
	}
	return Status{Running: s.running, Total: s.total, Done: s.done, Pending: pending}
}

// Subscribe registers a listener for campaign events.
// Events are dropped for subscribers that do not keep up. The returned func unsubscribes.
func (s *Scheduler) Subscribe() (<-chan Event, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Event, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

func (s *Scheduler) emit(e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- e:
		default:
			s.logger.Debug("Dropped update event", zap.String("type", string(e.Type)))
		}
	}
}

func (s *Scheduler) run(ctx context.Context) {
	for {
		groups := s.takeGroups(ctx)
		if groups == nil {
			return
		}
		s.runGroups(ctx, groups)
	}
}

// takeGroups marks every source with pending manga as active.
// When nothing is left, or the campaign is cancelled, it ends the campaign and returns nil.
func (s *Scheduler) takeGroups(ctx context.Context) []string {
	s.mu.Lock()

	var groups []string
	if ctx.Err() == nil {
		for source, list := range s.pending {
			if len(list) > 0 && !s.active[source] {
				s.active[source] = true
				groups = append(groups, source)
			}
		}
	}
	if len(groups) > 0 {
		s.mu.Unlock()
		sort.Strings(groups)
		return groups
	}

	done, total := s.done, s.total
	finished, cancel := s.finished, s.cancel
	s.running = false
	s.cancel = nil
	s.pending = make(map[string][]reconcile.Manga)
	s.active = make(map[string]bool)
	s.queued = make(map[int64]struct{})
	s.total, s.done = 0, 0
	s.mu.Unlock()
	cancel()

	s.logger.Info("Update campaign finished", zap.Int("done", done), zap.Int("total", total))
	s.emit(Event{Type: EventCampaignFinished, Done: done, Total: total})
	close(finished)
	return nil
}

func (s *Scheduler) runGroups(ctx context.Context, groups []string) {
	limit := len(groups)
	if limit > s.cfg.MaxConcurrency {
		limit = s.cfg.MaxConcurrency
	}
	sem := semaphore.NewWeighted(int64(limit))

	var g errgroup.Group
	for _, source := range groups {
		g.Go(func() error {
			defer s.release(source)
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			for {
				manga, ok := s.next(ctx, source)
				if !ok {
					return nil
				}
				s.updateQueued(ctx, manga)
			}
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Info("Update campaign cancelled", zap.Error(err))
	}
}

// next pops the next manga of a source group. Manga added while the group runs are picked up.
func (s *Scheduler) next(ctx context.Context, source string) (reconcile.Manga, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.pending[source]
	if len(list) == 0 || ctx.Err() != nil {
		return reconcile.Manga{}, false
	}
	s.pending[source] = list[1:]
	return list[0], true
}

func (s *Scheduler) release(source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, source)
}

func (s *Scheduler) updateQueued(ctx context.Context, manga reconcile.Manga) {
	outcome, err := s.UpdateManga(ctx, manga)

	s.mu.Lock()
	s.done++
	done, total := s.done, s.total
	s.mu.Unlock()

	e := Event{MangaID: manga.ID, Title: manga.Title, Done: done, Total: total}
	switch {
	case err != nil:
		if !errors.Is(err, context.Canceled) {
			logger.WithManga(s.logger, manga.ID, manga.Title).Error("Failed updating manga", zap.Error(err))
		}
		e.Type = EventMangaFailed
		e.Error = err.Error()
	case outcome.Changed():
		e.Type = EventMangaUpdated
		e.NewChapters = outcome.NewChapters
		e.Summary = outcome.Result.Summary
	default:
		e.Type = EventMangaUnchanged
		if outcome.Result != nil {
			e.Summary = outcome.Result.Summary
		}
	}
	s.emit(e)
}

// UpdateManga fetches, reconciles and persists the chapters of one manga.
// Concurrent calls for the same manga share one execution.
func (s *Scheduler) UpdateManga(ctx context.Context, manga reconcile.Manga) (*Outcome, error) {
	v, err, _ := s.flight.Do(strconv.FormatInt(manga.ID, 10), func() (any, error) {
		return s.updateManga(ctx, manga)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Outcome), nil
}

func (s *Scheduler) updateManga(ctx context.Context, manga reconcile.Manga) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := logger.WithManga(s.logger, manga.ID, manga.Title)

	before := manga
	primary, merged, err := s.Fetch(ctx, &manga)
	if err != nil {
		return nil, err
	}
	if manga.Title != before.Title || manga.Status != before.Status {
		if err := s.library.UpdateDetails(ctx, manga.ID, manga.Title, manga.Status); err != nil {
			return nil, fmt.Errorf("failed to update manga details: %w", err)
		}
	}

	if len(primary)+len(merged) == 0 {
		l.Debug("No chapters fetched, skipping reconcile")
		return &Outcome{Skipped: true}, nil
	}

	res, executed, err := s.Apply(ctx, manga, primary, merged, reconcile.ApplyOptions{})
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Result: res, Executed: executed, NewChapters: res.NewChapters()}

	if s.downloads != nil {
		if s.cfg.DownloadNew && len(outcome.NewChapters) > 0 {
			outcome.QueuedDownloads = s.downloads.Enqueue(manga, FilterScanlators(outcome.NewChapters, manga.ScanlatorFilter))
		}
		if s.cfg.DeleteRemoved && len(res.ToDelete) > 0 {
			removed, err := s.deleteDownloads(ctx, manga, res.ToDelete)
			if err != nil {
				l.Warn("Failed to delete removed chapter downloads", zap.Error(err))
			}
			outcome.RemovedDownloads = removed
		}
	}

	if outcome.Changed() {
		l.Info("Manga updated",
			zap.Int("inserted", res.Summary.Inserted),
			zap.Int("updated", res.Summary.Updated),
			zap.Int("deleted", res.Summary.Deleted),
			zap.Int("new", len(outcome.NewChapters)))
	}
	return outcome, nil
}

// Locks returns the per-manga locks held while chapters are reconciled and persisted.
// Other writers of the library chapters share them with the scheduler.
func (s *Scheduler) Locks() *MangaLocks {
	return s.locks
}

// Apply reconciles the fetched lists with the stored chapters of manga and persists the
// result while holding the manga lock.
func (s *Scheduler) Apply(ctx context.Context, manga reconcile.Manga, primary, merged []reconcile.RemoteChapter, opts reconcile.ApplyOptions) (*reconcile.Result, int, error) {
	unlock, err := s.locks.Lock(ctx, manga.ID)
	if err != nil {
		return nil, 0, err
	}
	defer unlock()
	return reconcile.ReconcileAndApply(ctx, s.reconciler, s.library, manga, primary, merged, opts)
}

// Fetch fetches the primary and merged chapter lists of a manga. Title and status of
// manga are refreshed in place when the primary source reports them; nothing is persisted.
func (s *Scheduler) Fetch(ctx context.Context, manga *reconcile.Manga) (primary, merged []reconcile.RemoteChapter, err error) {
	primary, err = s.fetchPrimary(ctx, manga)
	if err != nil {
		return nil, nil, err
	}
	if manga.IsMerged() && s.merged != nil {
		merged, err = s.merged.FetchChapters(ctx, *manga)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch merged chapters: %w", err)
		}
	}
	return primary, merged, nil
}

// fetchPrimary fetches the primary chapters and takes title and status from a DetailsSource.
func (s *Scheduler) fetchPrimary(ctx context.Context, manga *reconcile.Manga) ([]reconcile.RemoteChapter, error) {
	src, ok := s.sources[manga.Source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, manga.Source)
	}

	ds, ok := src.(DetailsSource)
	if !ok {
		chapters, err := src.FetchChapters(ctx, *manga)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chapters: %w", err)
		}
		return chapters, nil
	}

	details, chapters, err := ds.FetchDetails(ctx, *manga)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chapters: %w", err)
	}
	manga.Title, manga.Status = details.Title, details.Status
	return chapters, nil
}

func (s *Scheduler) deleteDownloads(ctx context.Context, manga reconcile.Manga, removed []reconcile.Chapter) (int, error) {
	var downloaded []reconcile.Chapter
	for _, c := range removed {
		ok, err := s.downloads.IsDownloaded(ctx, manga, c)
		if err != nil {
			return 0, err
		}
		if ok {
			downloaded = append(downloaded, c)
		}
	}
	if len(downloaded) == 0 {
		return 0, nil
	}
	return s.downloads.DeleteChapters(ctx, manga, downloaded)
}

// FilterScanlators keeps the chapters released by one of the given scanlators.
// An empty filter keeps every chapter.
func FilterScanlators(chapters []reconcile.Chapter, scanlators []string) []reconcile.Chapter {
	if len(scanlators) == 0 {
		return chapters
	}
	allowed := make(map[string]struct{}, len(scanlators))
	for _, name := range scanlators {
		allowed[name] = struct{}{}
	}

	var out []reconcile.Chapter
	for _, c := range chapters {
		if _, ok := allowed[c.Scanlator]; ok {
			out = append(out, c)
		}
	}
	return out
}
