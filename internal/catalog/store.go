package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/autograph-kg/autograph/internal/model"
)

// ErrCatalogLoad marks a malformed or missing catalog source.
var ErrCatalogLoad = errors.New("catalog load failed")

// Catalog is a named set of canonical records. Lower priority is consulted
// first. Records are immutable once loaded.
type Catalog struct {
	Name     string
	Priority int
	Scope    model.ModeScope
	Records  []*model.CatalogRecord

	byName  map[string][]*model.CatalogRecord
	byAlias map[string][]*model.CatalogRecord
}

func newCatalog(name string, priority int, scope model.ModeScope, records []*model.CatalogRecord) *Catalog {
	c := &Catalog{
		Name:     name,
		Priority: priority,
		Scope:    scope,
		Records:  records,
		byName:   make(map[string][]*model.CatalogRecord),
		byAlias:  make(map[string][]*model.CatalogRecord),
	}
	for _, r := range records {
		r.SourceCatalog = name
		key := strings.ToLower(r.CanonicalName)
		c.byName[key] = append(c.byName[key], r)
		for _, a := range r.Aliases {
			c.byAlias[strings.ToLower(a)] = append(c.byAlias[strings.ToLower(a)], r)
		}
	}
	return c
}

// ByName returns records whose canonical name equals the case-folded key.
func (c *Catalog) ByName(key string) []*model.CatalogRecord {
	return c.byName[strings.ToLower(key)]
}

// ByAlias returns records carrying the case-folded key as an alias.
func (c *Catalog) ByAlias(key string) []*model.CatalogRecord {
	return c.byAlias[strings.ToLower(key)]
}

// The matcher consumes catalogs as generic candidate sources.

func (c *Catalog) SourceName() string          { return c.Name }
func (c *Catalog) SourcePriority() int         { return c.Priority }
func (c *Catalog) All() []*model.CatalogRecord { return c.Records }

// Options controls how the store assembles its catalogs.
type Options struct {
	Dir            string
	PriorityList   []string
	IncludeBuiltin bool
}

// Store holds the loaded catalogs. It is read-only after load and safe for
// concurrent use; Reload swaps the catalog set atomically.
type Store struct {
	opts   Options
	logger *zap.Logger

	mu       sync.RWMutex
	catalogs []*Catalog
}

// NewStore loads all catalogs per opts. A missing catalogs directory is not
// an error (the store may run builtin-only); a malformed file is.
func NewStore(opts Options, logger *zap.Logger) (*Store, error) {
	s := &Store{opts: opts, logger: logger.Named("catalog")}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	var catalogs []*Catalog

	if s.opts.Dir != "" {
		loaded, err := s.loadDir(s.opts.Dir)
		if err != nil {
			return err
		}
		catalogs = append(catalogs, loaded...)
	}

	if s.opts.IncludeBuiltin {
		catalogs = append(catalogs, builtinCatalogs()...)
	}

	sort.SliceStable(catalogs, func(i, j int) bool {
		return catalogs[i].Priority < catalogs[j].Priority
	})

	s.mu.Lock()
	s.catalogs = catalogs
	s.mu.Unlock()
	s.logger.Info("catalogs loaded", zap.Int("count", len(catalogs)))
	return nil
}

func (s *Store) loadDir(dir string) ([]*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("catalogs directory missing, skipping", zap.String("dir", dir))
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrCatalogLoad, dir, err)
	}

	var catalogs []*Catalog
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		name := "custom_" + strings.TrimSuffix(e.Name(), ext)
		c, err := loadFile(path, name)
		if err != nil {
			return nil, err
		}
		c.Priority = s.priorityFor(name, len(catalogs))
		catalogs = append(catalogs, c)
		s.logger.Info("custom catalog loaded",
			zap.String("catalog", name), zap.Int("records", len(c.Records)))
	}
	return catalogs, nil
}

// priorityFor places explicitly prioritized catalogs first, in list order,
// then the rest in discovery order. Builtins come after all customs.
func (s *Store) priorityFor(name string, discovered int) int {
	for i, n := range s.opts.PriorityList {
		if n == name {
			return i
		}
	}
	return len(s.opts.PriorityList) + discovered
}

type catalogFile struct {
	CatalogInfo struct {
		Domain      string `yaml:"domain"`
		Description string `yaml:"description"`
		Scope       string `yaml:"mode_scope"`
	} `yaml:"catalog_info"`
	Entities map[string]*model.CatalogRecord `yaml:"entities"`
}

func loadFile(path, name string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCatalogLoad, path, err)
	}

	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCatalogLoad, path, err)
	}
	if len(cf.Entities) == 0 {
		return nil, fmt.Errorf("%w: %s: no entities", ErrCatalogLoad, path)
	}

	records := make([]*model.CatalogRecord, 0, len(cf.Entities))
	keys := make([]string, 0, len(cf.Entities))
	for k := range cf.Entities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r := cf.Entities[k]
		if r.ID == "" {
			r.ID = k
		}
		if r.CanonicalName == "" {
			r.CanonicalName = k
		}
		if r.Domain == "" {
			r.Domain = cf.CatalogInfo.Domain
		}
		records = append(records, r)
	}

	scope := model.ScopeOfflineEligible
	if cf.CatalogInfo.Scope == string(model.ScopeOnlineOnly) {
		scope = model.ScopeOnlineOnly
	}
	return newCatalog(name, 0, scope, records), nil
}

// InPriorityOrder returns the catalogs eligible for mode scope, ascending by
// priority. The returned slice must not be mutated.
func (s *Store) InPriorityOrder(offlineOnly bool) []*Catalog {
	s.mu.RLock()
	catalogs := s.catalogs
	s.mu.RUnlock()

	if !offlineOnly {
		return catalogs
	}
	var out []*Catalog
	for _, c := range catalogs {
		if c.Scope == model.ScopeOfflineEligible {
			out = append(out, c)
		}
	}
	return out
}

// Catalogs reports metadata for every loaded catalog.
func (s *Store) Catalogs() []model.CatalogInfo {
	s.mu.RLock()
	catalogs := s.catalogs
	s.mu.RUnlock()

	infos := make([]model.CatalogInfo, 0, len(catalogs))
	for _, c := range catalogs {
		infos = append(infos, model.CatalogInfo{
			Name:     c.Name,
			Priority: c.Priority,
			Scope:    c.Scope,
			Records:  len(c.Records),
		})
	}
	return infos
}

// Reload rebuilds the store from its sources. Callers holding the previous
// *Store keep a consistent view; new lookups go through the new set.
func (s *Store) Reload() error {
	return s.load()
}
