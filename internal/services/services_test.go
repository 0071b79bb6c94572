package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/models"
)

type fakePeopleAPI struct {
	mu        sync.Mutex
	people    []models.Person
	nextID    int
	listErr   error
	searchErr error
	writeErr  error
	calls     []string
	// block, when set, holds ListPeople answers computed at call time
	block chan struct{}
}

func newFakePeopleAPI(people ...models.Person) *fakePeopleAPI {
	return &fakePeopleAPI{people: people, nextID: 100}
}

func (f *fakePeopleAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakePeopleAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

func (f *fakePeopleAPI) pageOf(list []models.Person, params models.PaginationParams) *models.PaginatedResponse[models.Person] {
	params = params.WithDefaults()
	total := len(list)
	totalPages := (total + params.Limit - 1) / params.Limit
	if totalPages == 0 {
		totalPages = 1
	}
	start := min((params.Page-1)*params.Limit, total)
	end := min(start+params.Limit, total)
	return &models.PaginatedResponse[models.Person]{
		Data:        append([]models.Person{}, list[start:end]...),
		Page:        params.Page,
		Limit:       params.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasPrevious: params.Page > 1,
		HasNext:     params.Page < totalPages,
	}
}

func (f *fakePeopleAPI) ListPeople(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[models.Person], error) {
	f.mu.Lock()
	err := f.listErr
	page := f.pageOf(f.people, params)
	block := f.block
	f.mu.Unlock()
	f.record("list:" + strconv.Itoa(params.Page))

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (f *fakePeopleAPI) SearchPeople(_ context.Context, query string, params models.PaginationParams) (*models.PaginatedResponse[models.Person], error) {
	f.record("search:" + query)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var matched []models.Person
	for _, p := range f.people {
		if p.Nome == query || p.CPF == query {
			matched = append(matched, p)
		}
	}
	return f.pageOf(matched, params), nil
}

func (f *fakePeopleAPI) GetPerson(_ context.Context, id string) (*models.Person, error) {
	f.record("get:" + id)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.people {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, models.ErrPersonNotFound
}

func (f *fakePeopleAPI) CreatePerson(_ context.Context, p models.Person) (*models.Person, error) {
	f.record("create")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.nextID++
	p.ID = strconv.Itoa(f.nextID)
	f.people = append(f.people, p)
	return &p, nil
}

func (f *fakePeopleAPI) UpdatePerson(_ context.Context, id string, p models.Person) (*models.Person, error) {
	f.record("update:" + id)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	p.ID = id
	for i := range f.people {
		if f.people[i].ID == id {
			f.people[i] = p
		}
	}
	return &p, nil
}

func (f *fakePeopleAPI) DeletePerson(_ context.Context, id string) error {
	f.record("delete:" + id)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	kept := f.people[:0]
	for _, p := range f.people {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.people = kept
	return nil
}

var errBackend = errors.New("backend unavailable")

func samplePeople() []models.Person {
	return []models.Person{
		{ID: "1", Nome: "Ana Souza", CPF: "52998224725", DataNascimento: "1990-01-01"},
		{ID: "2", Nome: "Bruno Lima", CPF: "11144477735", DataNascimento: "1985-06-15"},
	}
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string][]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string][]string{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, values []string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = values
	c.ttls[key] = ttl
	return nil
}
