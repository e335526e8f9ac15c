package upsert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/curaious/companion/pkg/companionform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	categories []companionform.Category
	existing   map[string]*companionform.Record
	createErr  error

	created []companionform.Draft
	updated map[string]companionform.Draft
}

func (f *fakeClient) Create(_ context.Context, d companionform.Draft) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, d)
	return nil
}

func (f *fakeClient) Update(_ context.Context, id string, d companionform.Draft) error {
	if f.updated == nil {
		f.updated = map[string]companionform.Draft{}
	}
	f.updated[id] = d
	return nil
}

func (f *fakeClient) ListCategories(context.Context) ([]companionform.Category, error) {
	return f.categories, nil
}

func (f *fakeClient) GetCompanion(_ context.Context, id string) (*companionform.Record, error) {
	rec, ok := f.existing[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return rec, nil
}

var draftYAML = `
name: Ada
description: Mathematician
src: https://img.example/ada.png
categoryId: scientists
instructions: |
  ` + strings.Repeat("I", companionform.MinInstructionsLength) + `
seed: |
  ` + strings.Repeat("S", companionform.MinSeedLength) + `
`

func TestLoadDraft(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ada.yaml")
	require.NoError(t, os.WriteFile(path, []byte(draftYAML), 0o600))

	d, err := LoadDraft(path)

	require.NoError(t, err)
	assert.Equal(t, "Ada", d.Name)
	assert.Equal(t, "https://img.example/ada.png", d.Src)
	assert.Equal(t, "scientists", d.CategoryID)
	assert.GreaterOrEqual(t, len(d.Instructions), companionform.MinInstructionsLength)
}

func TestParseDraft_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseDraft([]byte("name: Ada\nimage: x\n"))
	assert.Error(t, err)
}

func TestLoadDraft_MissingFile(t *testing.T) {
	_, err := LoadDraft(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolveCategory(t *testing.T) {
	cats := []companionform.Category{{ID: "c1", Name: "Scientists"}, {ID: "c2", Name: "Movies & TV"}}

	assert.Equal(t, "c1", ResolveCategory(cats, "c1"))
	assert.Equal(t, "c1", ResolveCategory(cats, "scientists"))
	assert.Equal(t, "c2", ResolveCategory(cats, " Movies & TV "))
	assert.Equal(t, "unknown", ResolveCategory(cats, "unknown"))
	assert.Equal(t, "", ResolveCategory(cats, ""))
}

func TestRun_Create(t *testing.T) {
	client := &fakeClient{categories: []companionform.Category{{ID: "c1", Name: "Scientists"}}}
	draft, err := ParseDraft([]byte(draftYAML))
	require.NoError(t, err)

	var routes []string
	res, err := Run(context.Background(), client, draft, Options{
		Navigator: navigatorFunc(func(route string) { routes = append(routes, route) }),
	})

	require.NoError(t, err)
	assert.Equal(t, companionform.OutcomeSucceeded, res.Outcome)
	require.Len(t, client.created, 1)
	assert.Equal(t, "c1", client.created[0].CategoryID)
	assert.Equal(t, []string{companionform.HomeRoute}, routes)
}

func TestRun_UpdateKeepsIDAndReportsInvalid(t *testing.T) {
	client := &fakeClient{
		categories: []companionform.Category{{ID: "c1", Name: "Scientists"}},
		existing:   map[string]*companionform.Record{"abc123": {ID: "abc123", Draft: companionform.Draft{Name: "Ada"}}},
	}

	res, err := Run(context.Background(), client, companionform.Draft{Name: "Ada", Seed: "short"}, Options{ID: "abc123"})

	require.NoError(t, err)
	assert.Equal(t, companionform.OutcomeInvalid, res.Outcome)
	assert.Equal(t, "Seed requires at least 200 characters.", res.Errors[companionform.FieldSeed])
	assert.Empty(t, client.updated)

	draft, err := ParseDraft([]byte(draftYAML))
	require.NoError(t, err)
	res, err = Run(context.Background(), client, draft, Options{ID: "abc123"})
	require.NoError(t, err)
	assert.Equal(t, companionform.OutcomeSucceeded, res.Outcome)
	assert.Contains(t, client.updated, "abc123")
}

func TestRun_Failures(t *testing.T) {
	client := &fakeClient{createErr: errors.New("boom")}
	draft, err := ParseDraft([]byte(draftYAML))
	require.NoError(t, err)

	res, err := Run(context.Background(), client, draft, Options{})
	require.NoError(t, err)
	assert.Equal(t, companionform.OutcomeFailed, res.Outcome)
	assert.EqualError(t, res.Cause, "boom")

	_, err = Run(context.Background(), client, draft, Options{ID: "missing"})
	assert.True(t, err != nil && strings.Contains(err.Error(), "missing"))
}

type navigatorFunc func(route string)

func (navigatorFunc) Refresh(context.Context) {}

func (f navigatorFunc) NavigateTo(_ context.Context, route string) { f(route) }
