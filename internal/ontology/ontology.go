package ontology

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/autograph-kg/autograph/internal/model"
)

// ErrInvalidOntology marks a structurally broken ontology. Mapping must not
// proceed until the issues are fixed.
var ErrInvalidOntology = errors.New("ontology structurally invalid")

// Ontology is the merged class/relation graph across all loaded sources.
// It is immutable after Load and safe to share without locking.
type Ontology struct {
	Classes    map[string]*model.OntologyClass    // keyed by full name
	Relations  map[string]*model.OntologyRelation // keyed by full name
	Namespaces map[string]string
	Whitelist  []string // namespace prefixes treated as known-external
	Sources    []string
}

func newOntology(whitelist []string) *Ontology {
	o := &Ontology{
		Classes:    make(map[string]*model.OntologyClass),
		Relations:  make(map[string]*model.OntologyRelation),
		Namespaces: make(map[string]string),
		Whitelist:  whitelist,
	}
	o.Namespaces["schema"] = "https://schema.org/"
	o.Namespaces["dbpedia"] = "http://dbpedia.org/ontology/"
	o.Namespaces["local"] = "http://autograph.local/"
	o.Namespaces["custom"] = "http://autograph.custom/"
	return o
}

func (o *Ontology) addClass(c *model.OntologyClass) {
	if _, exists := o.Classes[c.FullName()]; !exists {
		o.Classes[c.FullName()] = c
	}
}

func (o *Ontology) addRelation(r *model.OntologyRelation) {
	if _, exists := o.Relations[r.FullName()]; !exists {
		o.Relations[r.FullName()] = r
	}
}

// whitelisted reports whether a qualified name lives in an explicitly
// trusted external namespace.
func (o *Ontology) whitelisted(qualified string) bool {
	ns, _, ok := strings.Cut(qualified, ":")
	if !ok {
		return false
	}
	for _, w := range o.Whitelist {
		if ns == w {
			return true
		}
	}
	return false
}

// IsSubclassOf walks the parent chain from sub looking for super.
func (o *Ontology) IsSubclassOf(sub, super string) bool {
	if sub == super {
		return true
	}
	current, ok := o.Classes[sub]
	for ok {
		if current.Parent == "" {
			return false
		}
		if current.Parent == super {
			return true
		}
		current, ok = o.Classes[current.Parent]
	}
	return false
}

// TypeCompatible reports whether the given class (or any ancestor) appears
// in the allowed list.
func (o *Ontology) TypeCompatible(class string, allowed []string) bool {
	for _, a := range allowed {
		if o.IsSubclassOf(class, a) {
			return true
		}
	}
	return false
}

// ClassForLabel resolves an entity-type label (PERSON, ORG, DRUG, ...) or a
// class name to an ontology class via name and alias equality.
func (o *Ontology) ClassForLabel(label string) *model.OntologyClass {
	if label == "" {
		return nil
	}
	var found []*model.OntologyClass
	for _, c := range o.Classes {
		if strings.EqualFold(c.Name, label) || strings.EqualFold(c.FullName(), label) {
			found = append(found, c)
			continue
		}
		for _, a := range c.Aliases {
			if strings.EqualFold(a, label) {
				found = append(found, c)
				break
			}
		}
	}
	if len(found) == 0 {
		return nil
	}
	sort.Slice(found, func(i, j int) bool { return found[i].FullName() < found[j].FullName() })
	return found[0]
}

// RelationForLabel resolves a relation label via name and alias equality.
func (o *Ontology) RelationForLabel(label string) *model.OntologyRelation {
	if label == "" {
		return nil
	}
	var found []*model.OntologyRelation
	for _, r := range o.Relations {
		if strings.EqualFold(r.Name, label) || strings.EqualFold(r.FullName(), label) {
			found = append(found, r)
			continue
		}
		for _, a := range r.Aliases {
			if strings.EqualFold(a, label) {
				found = append(found, r)
				break
			}
		}
	}
	if len(found) == 0 {
		return nil
	}
	sort.Slice(found, func(i, j int) bool { return found[i].FullName() < found[j].FullName() })
	return found[0]
}

type ontologyFile struct {
	Namespace    string                             `yaml:"namespace"`
	NamespaceURI string                             `yaml:"namespace_uri"`
	Classes      map[string]*model.OntologyClass    `yaml:"classes"`
	Relations    map[string]*model.OntologyRelation `yaml:"relations"`
}

// Options controls ontology assembly.
type Options struct {
	Dir        string
	Whitelist  []string
	UseBuiltin bool
}

// Load assembles the ontology from the builtin base plus every YAML source
// in the directory, merged by namespace, then validates it. A structurally
// invalid ontology is returned alongside ErrInvalidOntology so callers can
// report the issue list, but it must not be used for mapping.
func Load(opts Options, logger *zap.Logger) (*Ontology, error) {
	log := logger.Named("ontology")
	o := newOntology(opts.Whitelist)

	if opts.UseBuiltin {
		addBuiltin(o)
	}

	if opts.Dir != "" {
		entries, err := os.ReadDir(opts.Dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading ontology dir %s: %w", opts.Dir, err)
		}
		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
				continue
			}
			path := filepath.Join(opts.Dir, e.Name())
			if err := mergeFile(o, path); err != nil {
				return nil, err
			}
			log.Info("ontology source merged", zap.String("path", path))
		}
	}

	valid, issues := Validate(o)
	if !valid {
		return o, fmt.Errorf("%w: %s", ErrInvalidOntology, strings.Join(issues, "; "))
	}
	log.Info("ontology loaded",
		zap.Int("classes", len(o.Classes)), zap.Int("relations", len(o.Relations)))
	return o, nil
}

func mergeFile(o *Ontology, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading ontology source %s: %w", path, err)
	}
	var f ontologyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing ontology source %s: %w", path, err)
	}

	ns := f.Namespace
	if ns == "" {
		ns = "custom"
	}
	if f.NamespaceURI != "" {
		o.Namespaces[ns] = f.NamespaceURI
	}

	for name, c := range f.Classes {
		c.Name = name
		c.Namespace = ns
		c.Parent = qualify(c.Parent, ns)
		o.addClass(c)
	}
	for name, r := range f.Relations {
		r.Name = name
		r.Namespace = ns
		for i := range r.Domain {
			r.Domain[i] = qualify(r.Domain[i], ns)
		}
		for i := range r.Range {
			r.Range[i] = qualify(r.Range[i], ns)
		}
		r.Inverse = qualify(r.Inverse, ns)
		o.addRelation(r)
	}
	o.Sources = append(o.Sources, path)
	return nil
}

// qualify prefixes bare names with the file's namespace.
func qualify(name, ns string) string {
	if name == "" || strings.Contains(name, ":") {
		return name
	}
	return ns + ":" + name
}
