// Package memstore provides an in-memory grove.Store: a hierarchical tree
// of groups holding scalar attributes, float64 datasets and link entries.
// It backs the package tests and the grove CLI; it is not a persistence
// format.
package memstore

import (
	"errors"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"

	grove "github.com/grovedb/grove"
)

// ErrNotFound wraps every miss reported by this store.
var ErrNotFound = errors.New("memstore: not found")

type group struct {
	attrs    map[string]any
	datasets map[string][]float64
	links    map[string]grove.Path
	children map[string]struct{}
}

func newGroup() *group {
	return &group{
		attrs:    map[string]any{},
		datasets: map[string][]float64{},
		links:    map[string]grove.Path{},
		children: map[string]struct{}{},
	}
}

// Store is an in-memory hierarchical store. The zero value is not usable;
// call New.
type Store struct {
	groups map[string]*group
}

// New returns an empty store containing only the root group.
func New() *Store {
	return &Store{groups: map[string]*group{"/": newGroup()}}
}

var _ grove.Store = (*Store)(nil)

// RequireGroup creates the group at path and any missing ancestors.
func (s *Store) RequireGroup(path grove.Path) error {
	cur := grove.RootPath()
	if _, ok := s.groups[cur.String()]; !ok {
		s.groups[cur.String()] = newGroup()
	}
	for _, seg := range path.Segments() {
		parent := s.groups[cur.String()]
		cur = cur.Child(seg)
		if _, ok := s.groups[cur.String()]; !ok {
			s.groups[cur.String()] = newGroup()
		}
		parent.children[seg] = struct{}{}
	}
	return nil
}

// Exists reports whether a group exists at path.
func (s *Store) Exists(path grove.Path) (bool, error) {
	_, ok := s.groups[path.String()]
	return ok, nil
}

// Children lists the direct child group names under path. A path with no
// stored group yields an empty list.
func (s *Store) Children(path grove.Path) ([]string, error) {
	g, ok := s.groups[path.String()]
	if !ok {
		return nil, nil
	}
	out := make([]string, 0, len(g.children))
	for name := range g.children {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) group(path grove.Path) (*group, error) {
	g, ok := s.groups[path.String()]
	if !ok {
		return nil, fmt.Errorf("%w: no group at %s", ErrNotFound, path)
	}
	return g, nil
}

// ReadAttr returns the scalar attribute name stored at path.
func (s *Store) ReadAttr(path grove.Path, name string) (any, error) {
	g, err := s.group(path)
	if err != nil {
		return nil, err
	}
	v, ok := g.attrs[name]
	if !ok {
		return nil, fmt.Errorf("%w: no attribute %q at %s", ErrNotFound, name, path)
	}
	return v, nil
}

// WriteAttr stores a scalar attribute at path, which must exist.
func (s *Store) WriteAttr(path grove.Path, name string, value any) error {
	g, err := s.group(path)
	if err != nil {
		return err
	}
	g.attrs[name] = value
	return nil
}

// ReadDataset returns a copy of the dataset name stored at path.
func (s *Store) ReadDataset(path grove.Path, name string) ([]float64, error) {
	g, err := s.group(path)
	if err != nil {
		return nil, err
	}
	v, ok := g.datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w: no dataset %q at %s", ErrNotFound, name, path)
	}
	return append([]float64{}, v...), nil
}

// WriteDataset stores a copy of values at path, which must exist.
func (s *Store) WriteDataset(path grove.Path, name string, values []float64) error {
	g, err := s.group(path)
	if err != nil {
		return err
	}
	g.datasets[name] = append([]float64{}, values...)
	return nil
}

// ReadLink returns the target path stored for the link entry name at path.
func (s *Store) ReadLink(path grove.Path, name string) (grove.Path, error) {
	g, err := s.group(path)
	if err != nil {
		return grove.Path{}, err
	}
	t, ok := g.links[name]
	if !ok {
		return grove.Path{}, fmt.Errorf("%w: no link %q at %s", ErrNotFound, name, path)
	}
	return t, nil
}

// WriteLink stores an aliasing entry from path+name to target.
func (s *Store) WriteLink(path grove.Path, name string, target grove.Path) error {
	g, err := s.group(path)
	if err != nil {
		return err
	}
	g.links[name] = target
	return nil
}

type dumpGroup struct {
	Attrs    map[string]any       `json:"attrs,omitempty"`
	Datasets map[string][]float64 `json:"datasets,omitempty"`
	Links    map[string]string    `json:"links,omitempty"`
	Children []string             `json:"children,omitempty"`
}

// DumpJSON renders the whole store as indented JSON keyed by group path,
// for inspection and golden tests. Map keys serialize in sorted order, so
// the output is deterministic.
func (s *Store) DumpJSON() ([]byte, error) {
	out := make(map[string]dumpGroup, len(s.groups))
	for path, g := range s.groups {
		dg := dumpGroup{}
		if len(g.attrs) > 0 {
			dg.Attrs = g.attrs
		}
		if len(g.datasets) > 0 {
			dg.Datasets = g.datasets
		}
		if len(g.links) > 0 {
			dg.Links = make(map[string]string, len(g.links))
			for name, target := range g.links {
				dg.Links[name] = target.String()
			}
		}
		if len(g.children) > 0 {
			names := make([]string, 0, len(g.children))
			for name := range g.children {
				names = append(names, name)
			}
			sort.Strings(names)
			dg.Children = names
		}
		out[path] = dg
	}
	return json.MarshalIndent(out, "", "  ")
}
