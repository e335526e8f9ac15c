// Package upsert submits companion drafts to a remote server through the form workflow.
package upsert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/curaious/companion/internal/metrics"
	"github.com/curaious/companion/pkg/companionform"
	"gopkg.in/yaml.v3"
)

// Client is the remote surface a submission needs. *sdk.SDK implements it.
type Client interface {
	companionform.Endpoint
	ListCategories(ctx context.Context) ([]companionform.Category, error)
	GetCompanion(ctx context.Context, id string) (*companionform.Record, error)
}

type Options struct {
	// ID selects update mode for an existing companion.
	ID        string
	Feedback  companionform.Feedback
	Navigator companionform.Navigator
}

// LoadDraft reads a draft from a YAML file. Unknown keys are rejected.
func LoadDraft(path string) (companionform.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return companionform.Draft{}, fmt.Errorf("failed to read draft: %w", err)
	}

	return ParseDraft(data)
}

func ParseDraft(data []byte) (companionform.Draft, error) {
	var draft companionform.Draft

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&draft); err != nil {
		return companionform.Draft{}, fmt.Errorf("failed to parse draft: %w", err)
	}

	return draft, nil
}

// Run loads the categories (and the companion, in update mode), copies draft into a fresh
// workflow and submits it. A categoryId naming a category instead of its ID is resolved.
func Run(ctx context.Context, client Client, draft companionform.Draft, opts Options) (companionform.Result, error) {
	categories, err := client.ListCategories(ctx)
	if err != nil {
		return companionform.Result{}, fmt.Errorf("failed to list categories: %w", err)
	}

	var existing *companionform.Record
	if opts.ID != "" {
		existing, err = client.GetCompanion(ctx, opts.ID)
		if err != nil {
			return companionform.Result{}, fmt.Errorf("failed to load companion %s: %w", opts.ID, err)
		}
	}

	draft.CategoryID = ResolveCategory(categories, draft.CategoryID)

	w := companionform.New(companionform.Config{
		Existing:   existing,
		Categories: categories,
		Endpoint:   client,
		Feedback:   opts.Feedback,
		Navigator:  opts.Navigator,
	})
	defer w.Close()

	for _, f := range companionform.Fields {
		if err := w.SetField(f, draft.Get(f)); err != nil {
			return companionform.Result{}, err
		}
	}

	start := time.Now()
	result, err := w.Submit(ctx)
	if err != nil {
		return companionform.Result{}, err
	}
	metrics.ObserveSubmission(string(w.Mode()), string(result.Outcome), time.Since(start))

	return result, nil
}

// ResolveCategory maps a category name to its ID. Values that already are an ID, or match
// nothing, are returned unchanged.
func ResolveCategory(categories []companionform.Category, value string) string {
	for _, c := range categories {
		if c.ID == value {
			return value
		}
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, strings.TrimSpace(value)) {
			return c.ID
		}
	}
	return value
}
