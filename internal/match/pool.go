package match

import (
	"strings"

	"github.com/autograph-kg/autograph/internal/model"
)

// Pool is an in-memory Source built from an arbitrary record slice. The
// ontology mapper uses it to present classes and relations to the matcher.
type Pool struct {
	name     string
	priority int
	records  []*model.CatalogRecord
	byName   map[string][]*model.CatalogRecord
	byAlias  map[string][]*model.CatalogRecord
}

func NewPool(name string, priority int, records []*model.CatalogRecord) *Pool {
	p := &Pool{
		name:     name,
		priority: priority,
		records:  records,
		byName:   make(map[string][]*model.CatalogRecord),
		byAlias:  make(map[string][]*model.CatalogRecord),
	}
	for _, r := range records {
		key := strings.ToLower(r.CanonicalName)
		p.byName[key] = append(p.byName[key], r)
		for _, a := range r.Aliases {
			p.byAlias[strings.ToLower(a)] = append(p.byAlias[strings.ToLower(a)], r)
		}
	}
	return p
}

func (p *Pool) SourceName() string     { return p.name }
func (p *Pool) SourcePriority() int    { return p.priority }
func (p *Pool) All() []*model.CatalogRecord { return p.records }

func (p *Pool) ByName(key string) []*model.CatalogRecord {
	return p.byName[strings.ToLower(key)]
}

func (p *Pool) ByAlias(key string) []*model.CatalogRecord {
	return p.byAlias[strings.ToLower(key)]
}
