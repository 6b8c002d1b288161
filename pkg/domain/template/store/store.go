// Package store keeps templates in memory.
package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mycelium-catalog/mycelium/pkg/domain"
	domerr "github.com/mycelium-catalog/mycelium/pkg/domain/errors"
)

// Store is a set of templates keyed by id. It is safe for concurrent use.
type Store struct {
	mux       sync.RWMutex
	templates map[string]domain.Template
}

func New() *Store {
	return &Store{templates: map[string]domain.Template{}}
}

// Create adds t. It fails with ErrConflict when t.Id is taken.
func (s *Store) Create(t domain.Template) (domain.Template, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.templates[t.Id]; ok {
		return domain.Template{}, fmt.Errorf("%w: template %s is present already", domerr.ErrConflict, t.Id)
	}
	s.templates[t.Id] = t
	return t, nil
}

// Get fails with ErrMissing when there are no template with id.
func (s *Store) Get(id string) (domain.Template, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return domain.Template{}, missing(id)
	}
	return t, nil
}

// Update replaces the template with id by t.
//
// The id of t is overwritten with id.
func (s *Store) Update(id string, t domain.Template) (domain.Template, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.templates[id]; !ok {
		return domain.Template{}, missing(id)
	}
	t.Id = id
	s.templates[id] = t
	return t, nil
}

// Delete removes the template with id, and returns it.
func (s *Store) Delete(id string) (domain.Template, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	t, ok := s.templates[id]
	if !ok {
		return domain.Template{}, missing(id)
	}
	delete(s.templates, id)
	return t, nil
}

// List returns all templates ordered by id.
func (s *Store) List() []domain.Template {
	s.mux.RLock()
	defer s.mux.RUnlock()

	ret := make([]domain.Template, 0, len(s.templates))
	for _, t := range s.templates {
		ret = append(ret, t)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Id < ret[j].Id })
	return ret
}

// BulkCreate adds all of ts, or nothing.
//
// It fails with ErrConflict when some of ids are taken or repeated in ts.
func (s *Store) BulkCreate(ts []domain.Template) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	seen := map[string]struct{}{}
	conflicts := []string{}
	for _, t := range ts {
		_, taken := s.templates[t.Id]
		_, repeated := seen[t.Id]
		if taken || repeated {
			conflicts = append(conflicts, t.Id)
		}
		seen[t.Id] = struct{}{}
	}
	if len(conflicts) != 0 {
		sort.Strings(conflicts)
		return fmt.Errorf(
			"%w: templates are present already: %s",
			domerr.ErrConflict, strings.Join(conflicts, ", "),
		)
	}

	for _, t := range ts {
		s.templates[t.Id] = t
	}
	return nil
}

func missing(id string) error {
	return fmt.Errorf("%w: template %s", domerr.ErrMissing, id)
}
