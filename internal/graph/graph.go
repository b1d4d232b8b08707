// Package graph resolves re-export chains over a module tree.
//
// Nodes are keyed by (module path, name). A name in a module is either a
// declared item, a child module, an explicit re-export pointing at a path,
// or something reachable through one of the module's glob re-exports.
// Resolve walks these edges with an explicit visiting stack so that chains
// which never reach a declaration are reported instead of looping.
package graph

import (
	"errors"
	"sort"
	"strings"

	"github.com/contaixt/laibrary/internal/model"
)

// Sep joins module path segments.
const Sep = "::"

// Key identifies a name inside a module.
type Key struct {
	Module string
	Name   string
}

func (k Key) String() string {
	return Join(k.Module, k.Name)
}

// Target is the path a re-export points at: Segments are walked starting
// from Module. "self" and "super" segments are honoured. When Fallback is
// set and Module does not declare the first segment, the walk starts from
// the root instead.
type Target struct {
	Module   string
	Segments []string
	Fallback bool
}

// Placement makes item Item visible as Name in module Module.
type Placement struct {
	Item   int
	Module string
	Name   string
}

type module struct {
	public    bool
	children  map[string]string
	items     map[string][]int
	reexports map[string][]Target
	globs     []Target
}

func newModule() *module {
	return &module{
		children:  make(map[string]string),
		items:     make(map[string][]int),
		reexports: make(map[string][]Target),
	}
}

// Graph is a module tree with items and re-export edges.
type Graph struct {
	modules map[string]*module
	memo    map[Key]resolved
}

// New returns a graph containing only the public root module "".
func New() *Graph {
	g := &Graph{
		modules: make(map[string]*module),
		memo:    make(map[Key]resolved),
	}
	g.modules[""] = newModule()
	g.modules[""].public = true
	return g
}

// AddModule declares the module at path and links it to its parent.
func (g *Graph) AddModule(path string, public bool) {
	if path == "" {
		return
	}
	g.ensure(path).public = public
	parent, _ := Parent(path)
	g.ensure(parent).children[Base(path)] = path
}

// AddItem declares item id under name in module.
func (g *Graph) AddItem(module, name string, id int) {
	m := g.ensure(module)
	m.items[name] = append(m.items[name], id)
}

// AddReExport makes target visible in module under alias.
func (g *Graph) AddReExport(module, alias string, target Target) {
	m := g.ensure(module)
	m.reexports[alias] = append(m.reexports[alias], target)
}

// AddGlob re-exports every public name of the module target resolves to.
func (g *Graph) AddGlob(module string, target Target) {
	m := g.ensure(module)
	m.globs = append(m.globs, target)
}

// Reachable reports whether every module from the root down to path is public.
func (g *Graph) Reachable(path string) bool {
	for p := path; p != ""; {
		m, ok := g.modules[p]
		if !ok || !m.public {
			return false
		}
		p, _ = Parent(p)
	}
	return true
}

// Resolve returns every placement of an item into a reachable module:
// declared items in their own module, plus whatever explicit and glob
// re-exports lead to. The result is deduplicated and sorted. An explicit
// re-export cycle anywhere in the tree is an error, even when no reachable
// module leads into it.
func (g *Graph) Resolve() ([]Placement, error) {
	seen := make(map[Placement]struct{})
	var out []Placement
	add := func(p Placement) {
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, path := range sortedKeys(g.modules) {
		m := g.modules[path]
		reachable := g.Reachable(path)

		if reachable {
			for _, name := range sortedKeys(m.items) {
				for _, id := range m.items[name] {
					add(Placement{Item: id, Module: path, Name: name})
				}
			}
		}

		// Re-exports of hidden modules place nothing but are still
		// followed, so a cycle among them is reported.
		for _, alias := range sortedKeys(m.reexports) {
			s := newStack()
			s.push(Key{Module: path, Name: alias})
			for _, t := range m.reexports[alias] {
				r, err := g.follow(t, s)
				if err != nil {
					return nil, err
				}
				if !reachable {
					continue
				}
				for _, id := range r.items {
					add(Placement{Item: id, Module: path, Name: alias})
				}
			}
		}

		if !reachable {
			continue
		}

		for _, name := range g.globNames(path) {
			if g.declares(path, name) {
				continue // explicit names shadow glob imports
			}
			r, err := g.lookup(Key{Module: path, Name: name}, newStack())
			if err != nil {
				return nil, err
			}
			for _, id := range r.items {
				add(Placement{Item: id, Module: path, Name: name})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Module != out[j].Module {
			return out[i].Module < out[j].Module
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Item < out[j].Item
	})
	return out, nil
}

type resolved struct {
	items    []int
	module   string
	isModule bool
}

func (r resolved) found() bool {
	return len(r.items) > 0 || r.isModule
}

func (r resolved) merge(o resolved) resolved {
	r.items = append(r.items, o.items...)
	if !r.isModule && o.isModule {
		r.module, r.isModule = o.module, true
	}
	return r
}

func (g *Graph) ensure(path string) *module {
	m, ok := g.modules[path]
	if !ok {
		m = newModule()
		g.modules[path] = m
	}
	return m
}

func (g *Graph) declares(module, name string) bool {
	m, ok := g.modules[module]
	if !ok {
		return false
	}
	if _, ok := m.children[name]; ok {
		return true
	}
	if _, ok := m.items[name]; ok {
		return true
	}
	_, ok = m.reexports[name]
	return ok
}

// lookup resolves name k.Name inside module k.Module.
func (g *Graph) lookup(k Key, s *stack) (resolved, error) {
	m, ok := g.modules[k.Module]
	if !ok {
		return resolved{}, nil
	}
	if r, ok := g.memo[k]; ok {
		return r, nil
	}

	var r resolved
	r.items = append(r.items, m.items[k.Name]...)
	if child, ok := m.children[k.Name]; ok {
		r.module, r.isModule = child, true
	}
	if r.found() {
		g.memo[k] = r
		return r, nil
	}

	if s.has(k) {
		return resolved{}, s.cycle(k)
	}
	s.push(k)
	defer s.pop()

	for _, t := range m.reexports[k.Name] {
		tr, err := g.follow(t, s)
		if err != nil {
			return resolved{}, err
		}
		r = r.merge(tr)
	}
	if r.found() {
		g.memo[k] = r
		return r, nil
	}

	for _, t := range m.globs {
		gr, err := g.follow(t, s)
		if err != nil {
			if isCycle(err) {
				continue
			}
			return resolved{}, err
		}
		if !gr.isModule {
			continue
		}
		sub, err := g.lookup(Key{Module: gr.module, Name: k.Name}, s)
		if err != nil {
			if isCycle(err) {
				continue // glob loops are legal; they just contribute nothing
			}
			return resolved{}, err
		}
		if sub.isModule && !g.modules[sub.module].public {
			sub.isModule, sub.module = false, ""
		}
		r = r.merge(sub)
	}
	if r.found() {
		g.memo[k] = r
	}
	return r, nil
}

// follow walks t's segments and returns what the final segment names.
func (g *Graph) follow(t Target, s *stack) (resolved, error) {
	cur := t.Module
	if _, ok := g.modules[cur]; !ok {
		return resolved{}, nil
	}
	segs := t.Segments
	if t.Fallback && len(segs) > 0 && !g.declares(cur, segs[0]) {
		cur = ""
	}

	for i, seg := range segs {
		switch seg {
		case "self":
			continue
		case "super":
			p, ok := Parent(cur)
			if !ok {
				return resolved{}, nil
			}
			cur = p
			continue
		}
		r, err := g.lookup(Key{Module: cur, Name: seg}, s)
		if err != nil {
			return resolved{}, err
		}
		if i == len(segs)-1 {
			return r, nil
		}
		if !r.isModule {
			return resolved{}, nil
		}
		cur = r.module
	}
	return resolved{module: cur, isModule: true}, nil
}

// globNames lists every name the glob re-exports of path can import.
func (g *Graph) globNames(path string) []string {
	names := make(map[string]struct{})
	visited := map[string]bool{path: true}
	var collect func(mod string)
	collect = func(mod string) {
		m := g.modules[mod]
		for _, t := range m.globs {
			r, err := g.follow(t, newStack())
			if err != nil || !r.isModule || visited[r.module] {
				continue
			}
			visited[r.module] = true
			target := g.modules[r.module]
			for name := range target.items {
				names[name] = struct{}{}
			}
			for name := range target.reexports {
				names[name] = struct{}{}
			}
			collect(r.module)
		}
	}
	collect(path)
	return sortedKeys(names)
}

type stack struct {
	keys  []Key
	index map[Key]int
}

func newStack() *stack {
	return &stack{index: make(map[Key]int)}
}

func (s *stack) push(k Key) {
	s.index[k] = len(s.keys)
	s.keys = append(s.keys, k)
}

func (s *stack) pop() {
	last := s.keys[len(s.keys)-1]
	delete(s.index, last)
	s.keys = s.keys[:len(s.keys)-1]
}

func (s *stack) has(k Key) bool {
	_, ok := s.index[k]
	return ok
}

func (s *stack) cycle(k Key) error {
	var chain []string
	for _, key := range s.keys[s.index[k]:] {
		chain = append(chain, key.String())
	}
	chain = append(chain, k.String())
	return &model.ReExportCycleError{Chain: chain}
}

func isCycle(err error) bool {
	return errors.Is(err, model.ErrReExportCycle)
}

// Join appends name to a module path.
func Join(module, name string) string {
	if module == "" {
		return name
	}
	return module + Sep + name
}

// Parent returns the parent of a module path; ok is false for the root.
func Parent(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	i := strings.LastIndex(path, Sep)
	if i < 0 {
		return "", true
	}
	return path[:i], true
}

// Base returns the last segment of a module path.
func Base(path string) string {
	i := strings.LastIndex(path, Sep)
	if i < 0 {
		return path
	}
	return path[i+len(Sep):]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
