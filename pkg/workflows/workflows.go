// Package workflows is the static catalog of service workflow definitions.
// Definitions are embedded JSON, validated against a schema at load time,
// and looked up by slug. They are configuration, not engine logic: the
// wizard engine in pkg/wizard interprets whatever the catalog serves.
package workflows

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/herreralegal/intake/pkg/models"
)

//go:embed definitions/*.json
var definitionFiles embed.FS

// ErrNotFound indicates no workflow is registered under the given slug.
var ErrNotFound = errors.New("workflow not found")

// Catalog holds the loaded workflow definitions, keyed by slug.
type Catalog struct {
	workflows map[string]*models.ServiceWorkflow
	slugs     []string
}

// NewCatalog loads and validates every embedded definition. A single
// invalid definition fails the whole load: a partially resolved catalog
// would render partial forms.
func NewCatalog() (*Catalog, error) {
	entries, err := definitionFiles.ReadDir("definitions")
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow definitions: %w", err)
	}

	catalog := &Catalog{workflows: make(map[string]*models.ServiceWorkflow, len(entries))}

	for _, entry := range entries {
		raw, err := definitionFiles.ReadFile("definitions/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}

		if err := validateDefinition(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}

		var workflow models.ServiceWorkflow
		if err := json.Unmarshal(raw, &workflow); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", entry.Name(), err)
		}

		if err := validateStructure(&workflow); err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}

		if _, exists := catalog.workflows[workflow.Slug]; exists {
			return nil, fmt.Errorf("%s: duplicate workflow slug %q", entry.Name(), workflow.Slug)
		}

		catalog.workflows[workflow.Slug] = &workflow
		catalog.slugs = append(catalog.slugs, workflow.Slug)
	}

	sort.Strings(catalog.slugs)

	return catalog, nil
}

// Get resolves a workflow by slug.
func (c *Catalog) Get(slug string) (*models.ServiceWorkflow, error) {
	workflow, ok := c.workflows[slug]
	if !ok {
		return nil, fmt.Errorf("slug %q: %w", slug, ErrNotFound)
	}

	return workflow, nil
}

// All returns every workflow, ordered by slug.
func (c *Catalog) All() []*models.ServiceWorkflow {
	all := make([]*models.ServiceWorkflow, 0, len(c.slugs))
	for _, slug := range c.slugs {
		all = append(all, c.workflows[slug])
	}

	return all
}

// Slugs returns the registered slugs, sorted.
func (c *Catalog) Slugs() []string {
	return c.slugs
}
