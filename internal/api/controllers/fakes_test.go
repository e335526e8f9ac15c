package controllers

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/curaious/companion/internal/services"
	"github.com/curaious/companion/internal/services/category"
	"github.com/curaious/companion/internal/services/companion"
	"github.com/curaious/companion/pkg/companionform"
	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type memCategories struct {
	items []*category.Category
}

func (m *memCategories) List(context.Context) ([]*category.Category, error) {
	return m.items, nil
}

func (m *memCategories) GetByID(_ context.Context, id uuid.UUID) (*category.Category, error) {
	for _, c := range m.items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, category.ErrCategoryNotFound
}

type memCompanions struct {
	mu       sync.Mutex
	items    map[uuid.UUID]*companion.Companion
	writeErr error
}

func (m *memCompanions) Create(_ context.Context, c *companion.Companion) (*companion.Companion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	created := *c
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.items[created.ID] = &created
	return &created, nil
}

func (m *memCompanions) GetByID(_ context.Context, id uuid.UUID) (*companion.Companion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, companion.ErrCompanionNotFound
	}
	return c, nil
}

func (m *memCompanions) List(_ context.Context, filter companion.ListFilter) ([]*companion.Companion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*companion.Companion{}
	for _, c := range m.items {
		if filter.CategoryID != nil && c.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *memCompanions) Update(_ context.Context, id uuid.UUID, c *companion.Companion) (*companion.Companion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	if _, ok := m.items[id]; !ok {
		return nil, companion.ErrCompanionNotFound
	}
	updated := *c
	updated.ID = id
	m.items[id] = &updated
	return &updated, nil
}

func (m *memCompanions) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return companion.ErrCompanionNotFound
	}
	delete(m.items, id)
	return nil
}

type testEnv struct {
	handler    fasthttp.RequestHandler
	companions *memCompanions
	scientists *category.Category
	games      *category.Category
}

func newTestEnv() *testEnv {
	env := &testEnv{
		companions: &memCompanions{items: map[uuid.UUID]*companion.Companion{}},
		scientists: &category.Category{ID: uuid.New(), Name: "Scientists"},
		games:      &category.Category{ID: uuid.New(), Name: "Games"},
	}

	categories := category.NewCategoryService(&memCategories{items: []*category.Category{env.games, env.scientists}}, nil)
	svc := &services.Services{
		Category:  categories,
		Companion: companion.NewCompanionService(env.companions, categories, nil),
	}

	r := router.New()
	RegisterCategoryRoutes(r, svc)
	RegisterCompanionRoutes(r, svc)
	RegisterFormRoutes(r, svc)
	env.handler = r.Handler

	return env
}

func (e *testEnv) seed(name string) *companion.Companion {
	c := &companion.Companion{
		ID:           uuid.New(),
		Name:         name,
		Description:  "Mathematician",
		Instructions: strings.Repeat("i", companionform.MinInstructionsLength),
		Seed:         strings.Repeat("s", companionform.MinSeedLength),
		Src:          "https://img.example/" + name + ".png",
		CategoryID:   e.scientists.ID,
	}
	e.companions.items[c.ID] = c
	return c
}

type requestOption func(*fasthttp.Request)

func withBody(contentType string, body []byte) requestOption {
	return func(req *fasthttp.Request) {
		req.Header.SetContentType(contentType)
		req.SetBody(body)
	}
}

func withCookie(key, value string) requestOption {
	return func(req *fasthttp.Request) {
		req.Header.SetCookie(key, value)
	}
}

func (e *testEnv) do(method, uri string, opts ...requestOption) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI("http://companion.test" + uri)
	for _, opt := range opts {
		opt(&req)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	e.handler(ctx)
	return ctx
}

func validDraft(categoryID uuid.UUID) companionform.Draft {
	return companionform.Draft{
		Name:         "Ada",
		Description:  "Mathematician",
		Instructions: strings.Repeat("i", companionform.MinInstructionsLength),
		Seed:         strings.Repeat("s", companionform.MinSeedLength),
		Src:          "https://img.example/ada.png",
		CategoryID:   categoryID.String(),
	}
}
