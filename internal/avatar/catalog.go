package avatar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"mattersend/internal/domain"
)

// Catalog is a read-only set of avatars keyed by name.
// Iteration follows the order in which each name was first loaded.
type Catalog struct {
	byName map[string]domain.Avatar
	order  []string
}

// entry mirrors one element of the catalog file. Pointers tell a missing
// property apart from an empty one.
type entry struct {
	Name        *string `json:"name"`
	DisplayName *string `json:"displayName"`
	ImageURL    *string `json:"imageUrl"`
}

// New builds a catalog from already validated avatars. Later duplicates win.
func New(avatars ...domain.Avatar) *Catalog {
	c := &Catalog{byName: make(map[string]domain.Avatar, len(avatars))}
	for _, a := range avatars {
		c.put(a)
	}
	return c
}

// LoadFile reads a JSON catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: avatars file %s: %v", domain.ErrSourceRead, path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("avatars file %s: %w", path, err)
	}
	return c, nil
}

// Load reads a JSON catalog from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceRead, err)
	}
	return Parse(data)
}

// Parse decodes a JSON array of {name, displayName, imageUrl} objects.
func Parse(data []byte) (*Catalog, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON in avatars source: %v", domain.ErrSourceRead, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: avatars source is not a JSON array", domain.ErrSourceRead)
	}

	c := &Catalog{byName: make(map[string]domain.Avatar, len(raw))}
	for i, item := range raw {
		a, err := decodeEntry(item)
		if err != nil {
			return nil, fmt.Errorf("avatar #%d: %w", i, err)
		}
		c.put(a)
	}
	return c, nil
}

func decodeEntry(item json.RawMessage) (domain.Avatar, error) {
	var e entry
	if err := json.Unmarshal(item, &e); err != nil {
		return domain.Avatar{}, fmt.Errorf("%w: expected an object with string properties: %v", domain.ErrValidation, err)
	}
	switch {
	case e.Name == nil:
		return domain.Avatar{}, fmt.Errorf("%w: missing property name", domain.ErrValidation)
	case e.DisplayName == nil:
		return domain.Avatar{}, fmt.Errorf("%w: missing property displayName", domain.ErrValidation)
	case e.ImageURL == nil:
		return domain.Avatar{}, fmt.Errorf("%w: missing property imageUrl", domain.ErrValidation)
	}
	return domain.NewAvatar(*e.Name, *e.DisplayName, *e.ImageURL)
}

func (c *Catalog) put(a domain.Avatar) {
	if _, ok := c.byName[a.Name()]; !ok {
		c.order = append(c.order, a.Name())
	}
	c.byName[a.Name()] = a
}

// Has reports whether an avatar with exactly this name exists.
func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Get returns the avatar with exactly this name.
func (c *Catalog) Get(name string) (domain.Avatar, error) {
	a, ok := c.byName[name]
	if !ok {
		return domain.Avatar{}, fmt.Errorf("%w: avatar %q", domain.ErrNotFound, name)
	}
	return a, nil
}

// Search returns avatars whose name contains query, ignoring case.
func (c *Catalog) Search(query string) ([]domain.Avatar, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("%w: cannot search for an empty name", domain.ErrValidation)
	}
	var found []domain.Avatar
	for _, name := range c.order {
		if strings.Contains(strings.ToLower(name), query) {
			found = append(found, c.byName[name])
		}
	}
	return found, nil
}

// All returns every avatar in catalog order.
func (c *Catalog) All() []domain.Avatar {
	out := make([]domain.Avatar, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name])
	}
	return out
}

func (c *Catalog) Len() int { return len(c.order) }
