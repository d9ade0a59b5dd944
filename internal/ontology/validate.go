package ontology

import (
	"fmt"
	"sort"
)

// Validate runs the structural checks over the merged ontology: parent
// chains must be acyclic, and every parent, domain, range and inverse
// reference must resolve to a declared class/relation or live in a
// whitelisted external namespace. Issues name the offending element so the
// source file can be fixed directly.
func Validate(o *Ontology) (bool, []string) {
	var issues []string

	issues = append(issues, checkCycles(o)...)

	names := make([]string, 0, len(o.Classes))
	for name := range o.Classes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := o.Classes[name]
		if c.Parent == "" {
			continue
		}
		if _, ok := o.Classes[c.Parent]; !ok && !o.whitelisted(c.Parent) {
			issues = append(issues, fmt.Sprintf(
				"class %s: parent %s is not declared and not whitelisted", name, c.Parent))
		}
	}

	relNames := make([]string, 0, len(o.Relations))
	for name := range o.Relations {
		relNames = append(relNames, name)
	}
	sort.Strings(relNames)
	for _, name := range relNames {
		r := o.Relations[name]
		for _, d := range r.Domain {
			if _, ok := o.Classes[d]; !ok && !o.whitelisted(d) {
				issues = append(issues, fmt.Sprintf(
					"relation %s: domain class %s is not declared and not whitelisted", name, d))
			}
		}
		for _, rg := range r.Range {
			if _, ok := o.Classes[rg]; !ok && !o.whitelisted(rg) {
				issues = append(issues, fmt.Sprintf(
					"relation %s: range class %s is not declared and not whitelisted", name, rg))
			}
		}
		if r.Inverse != "" {
			if _, ok := o.Relations[r.Inverse]; !ok && !o.whitelisted(r.Inverse) {
				issues = append(issues, fmt.Sprintf(
					"relation %s: inverse %s is not declared and not whitelisted", name, r.Inverse))
			}
		}
	}

	return len(issues) == 0, issues
}

// checkCycles walks every parent chain with three-state marking. Since each
// class has at most one parent, any cycle is a loop on the chain, and the
// class where the walk re-enters the in-progress path names it.
func checkCycles(o *Ontology) []string {
	const (
		unseen = iota
		inProgress
		done
	)
	state := make(map[string]int, len(o.Classes))

	names := make([]string, 0, len(o.Classes))
	for name := range o.Classes {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []string
	for _, start := range names {
		if state[start] != unseen {
			continue
		}
		var path []string
		current := start
		for {
			c, ok := o.Classes[current]
			if !ok || state[current] == done {
				break
			}
			if state[current] == inProgress {
				issues = append(issues, fmt.Sprintf(
					"inheritance cycle detected at class %s", current))
				break
			}
			state[current] = inProgress
			path = append(path, current)
			if c.Parent == "" {
				break
			}
			current = c.Parent
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return issues
}
