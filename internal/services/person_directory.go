package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/logging"
	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/observability"
	"github.com/prefeitura-rio/app-pessoas/internal/utils"
	"go.uber.org/zap"
)

// PeopleAPI is the backend side of the person directory
type PeopleAPI interface {
	ListPeople(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[models.Person], error)
	SearchPeople(ctx context.Context, query string, params models.PaginationParams) (*models.PaginatedResponse[models.Person], error)
	GetPerson(ctx context.Context, id string) (*models.Person, error)
	CreatePerson(ctx context.Context, p models.Person) (*models.Person, error)
	UpdatePerson(ctx context.Context, id string, p models.Person) (*models.Person, error)
	DeletePerson(ctx context.Context, id string) error
}

// PersonDirectory holds the page of people one admin is looking at.
// Writes go to the backend first and are mirrored into the page on success.
// A load that finishes after a newer one started is returned to its caller
// but never replaces the held page.
type PersonDirectory struct {
	api    PeopleAPI
	logger *logging.SafeLogger

	mu         sync.RWMutex
	page       models.PaginatedResponse[models.Person]
	params     models.PaginationParams
	generation uint64
	loaded     bool
}

// NewPersonDirectory creates an empty directory
func NewPersonDirectory(api PeopleAPI, logger *logging.SafeLogger) *PersonDirectory {
	if logger == nil {
		logger = logging.Logger
	}
	return &PersonDirectory{
		api:    api,
		logger: logger.Named("directory"),
		params: models.PaginationParams{}.WithDefaults(),
		page:   models.PaginatedResponse[models.Person]{Data: []models.Person{}},
	}
}

// Load fetches a page of people without a search filter
func (d *PersonDirectory) Load(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[models.Person], error) {
	params = params.WithDefaults()
	params.Search = ""
	return d.fetch(ctx, params, func(ctx context.Context) (*models.PaginatedResponse[models.Person], error) {
		return d.api.ListPeople(ctx, params)
	})
}

// Search fetches people matching query. A blank query, or a failed search,
// falls back to the unfiltered list.
func (d *PersonDirectory) Search(ctx context.Context, query string, params models.PaginationParams) (*models.PaginatedResponse[models.Person], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return d.Load(ctx, params)
	}

	params = params.WithDefaults()
	params.Search = query
	page, err := d.fetch(ctx, params, func(ctx context.Context) (*models.PaginatedResponse[models.Person], error) {
		return d.api.SearchPeople(ctx, query, params)
	})
	if err == nil {
		return page, nil
	}
	if models.IsKind(err, models.KindUnauthorized) || ctx.Err() != nil {
		return nil, err
	}

	d.logger.Warn("search failed, loading unfiltered list",
		zap.String("query", query),
		zap.Error(err))
	return d.Load(ctx, params)
}

func (d *PersonDirectory) fetch(ctx context.Context, params models.PaginationParams, call func(context.Context) (*models.PaginatedResponse[models.Person], error)) (*models.PaginatedResponse[models.Person], error) {
	d.mu.Lock()
	d.generation++
	generation := d.generation
	d.mu.Unlock()

	page, err := call(ctx)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if generation != d.generation {
		d.logger.Debug("discarding stale page",
			zap.Int("page", params.Page),
			zap.String("search", params.Search))
		return page, nil
	}
	d.page = copyPage(*page)
	d.params = params
	d.loaded = true
	return page, nil
}

// Get returns a person from the held page, asking the backend when absent
func (d *PersonDirectory) Get(ctx context.Context, id string) (*models.Person, error) {
	if p, ok := d.GetByID(id); ok {
		return &p, nil
	}
	return d.api.GetPerson(ctx, id)
}

// GetByID looks a person up in the held page only
func (d *PersonDirectory) GetByID(id string) (models.Person, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.page.Data {
		if p.ID == id {
			return p, true
		}
	}
	return models.Person{}, false
}

// Add creates a person and appends it to the held page
func (d *PersonDirectory) Add(ctx context.Context, p models.Person) (*models.Person, error) {
	created, err := d.api.CreatePerson(ctx, p)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.page.Data = append(d.page.Data, *created)
	d.page.Total++
	d.mu.Unlock()
	return created, nil
}

// Update replaces a person, both in the backend and in the held page
func (d *PersonDirectory) Update(ctx context.Context, id string, p models.Person) (*models.Person, error) {
	updated, err := d.api.UpdatePerson(ctx, id, p)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	for i := range d.page.Data {
		if d.page.Data[i].ID == id {
			d.page.Data[i] = *updated
		}
	}
	d.mu.Unlock()
	return updated, nil
}

// Delete removes a person, both in the backend and in the held page
func (d *PersonDirectory) Delete(ctx context.Context, id string) error {
	if err := d.api.DeletePerson(ctx, id); err != nil {
		return err
	}

	_, span := utils.TraceBusinessLogic(ctx, "drop_deleted_person")
	defer span.End()

	d.mu.Lock()
	kept := d.page.Data[:0]
	for _, p := range d.page.Data {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if removed := len(d.page.Data) - len(kept); removed > 0 && d.page.Total >= removed {
		d.page.Total -= removed
	}
	d.page.Data = kept
	d.mu.Unlock()
	return nil
}

// IsCPFUnique reports whether no held person other than excludeID has cpf
func (d *PersonDirectory) IsCPFUnique(cpf, excludeID string) bool {
	cpf = utils.CleanCPF(cpf)
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.page.Data {
		if p.CPF == cpf && p.ID != excludeID {
			return false
		}
	}
	return true
}

// Persons returns a copy of the held people
func (d *PersonDirectory) Persons() []models.Person {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Person{}, d.page.Data...)
}

// Page returns a copy of the held page and the params that produced it
func (d *PersonDirectory) Page() (models.PaginatedResponse[models.Person], models.PaginationParams, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return copyPage(d.page), d.params, d.loaded
}

func copyPage(p models.PaginatedResponse[models.Person]) models.PaginatedResponse[models.Person] {
	p.Data = append([]models.Person{}, p.Data...)
	return p
}

// DirectoryRegistry keeps one PersonDirectory per session. Directories left
// unused for longer than the session TTL are removed by Sweep, which covers
// sessions whose expiry the Manager never got to observe.
type DirectoryRegistry struct {
	api    PeopleAPI
	logger *logging.SafeLogger
	now    func() time.Time

	mu       sync.Mutex
	dirs     map[string]*PersonDirectory
	lastUsed map[string]time.Time
}

// NewDirectoryRegistry creates an empty registry
func NewDirectoryRegistry(api PeopleAPI, logger *logging.SafeLogger) *DirectoryRegistry {
	if logger == nil {
		logger = logging.Logger
	}
	return &DirectoryRegistry{
		api:      api,
		logger:   logger,
		now:      time.Now,
		dirs:     make(map[string]*PersonDirectory),
		lastUsed: make(map[string]time.Time),
	}
}

// For returns the directory of sessionID, creating it on first use
func (r *DirectoryRegistry) For(sessionID string) *PersonDirectory {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastUsed[sessionID] = r.now()
	if d, ok := r.dirs[sessionID]; ok {
		return d
	}
	d := NewPersonDirectory(r.api, r.logger)
	r.dirs[sessionID] = d
	observability.ActiveSessions.Inc()
	return d
}

// Drop forgets the directory of sessionID
func (r *DirectoryRegistry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropLocked(sessionID)
}

func (r *DirectoryRegistry) dropLocked(sessionID string) bool {
	if _, ok := r.dirs[sessionID]; !ok {
		return false
	}
	delete(r.dirs, sessionID)
	delete(r.lastUsed, sessionID)
	observability.ActiveSessions.Dec()
	return true
}

// Sweep drops directories not used within idle and returns how many went
func (r *DirectoryRegistry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	dropped := 0
	for id, used := range r.lastUsed {
		if used.Before(cutoff) && r.dropLocked(id) {
			dropped++
		}
	}
	return dropped
}

// RunSweeper calls Sweep every interval until ctx is done
func (r *DirectoryRegistry) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				r.logger.Info("dropped idle person directories", zap.Int("count", n))
			}
		}
	}
}

// Len returns how many sessions hold a directory
func (r *DirectoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dirs)
}
