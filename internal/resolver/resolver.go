// Package resolver implements name resolution and inventory snapshotting
// (C3): exact internal-name lookup, simple-name fallback, and Levenshtein-
// scored suggestions when both fail.
package resolver

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/tha23rd/recaf-mcp-sub000/internal/apierr"
	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
	"github.com/tha23rd/recaf-mcp-sub000/internal/logging"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

const maxSuggestions = 5
const maxLevenshteinDistance = 3

// Normalize converts a class name from either dot or slash notation to the
// internal (slash-form) notation used throughout the rest of the system.
func Normalize(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// Resolve looks up a class by name (accepted in dot or slash notation)
// against the given workspace. It performs, in order: (1) exact match on
// the normalized internal name; (2) if the query has no package component,
// a simple-name match, succeeding only if exactly one class shares that
// simple name; (3) failure, with up to 5 suggestions synthesized from
// case-insensitive substring matches and Levenshtein distance (see Suggest).
func Resolve(w *workspace.Workspace, query string) (bytecode.Class, *apierr.Error) {
	normalized := Normalize(query)

	if c, _, ok := w.LookupClass(normalized); ok {
		return c, nil
	}

	if !strings.Contains(normalized, "/") {
		matches := simpleNameMatches(w, normalized)
		if len(matches) == 1 {
			return matches[0], nil
		}
		if len(matches) > 1 {
			names := make([]string, len(matches))
			for i, m := range matches {
				names[i] = m.InternalName
			}
			logging.ResolverDebug("ambiguous simple-name resolution for %q: %v", query, names)
			return bytecode.Class{}, apierr.Ambiguous(
				"simple name \""+query+"\" matches multiple classes", names)
		}
	}

	suggestions := Suggest(w, normalized, maxSuggestions)
	logging.ResolverDebug("no match for %q, suggesting: %v", query, suggestions)
	return bytecode.Class{}, apierr.NotFound("class not found: "+query, suggestions)
}

func simpleNameMatches(w *workspace.Workspace, simpleName string) []bytecode.Class {
	var out []bytecode.Class
	for _, cr := range w.AllClasses() {
		if classSimpleName(cr.Class.InternalName) == simpleName {
			out = append(out, cr.Class)
		}
	}
	return out
}

func classSimpleName(internalName string) string {
	if idx := strings.LastIndexByte(internalName, '/'); idx >= 0 {
		return internalName[idx+1:]
	}
	return internalName
}

// Suggest synthesizes up to limit candidate names for a failed resolution
// from the workspace's classes: a case-insensitive substring match (on the
// full or simple name) scores 0; any other class is kept only when the
// Levenshtein distance between the simple names is <=3, and scores that
// distance. Candidates are ordered by score, then name.
func Suggest(w *workspace.Workspace, query string, limit int) []string {
	lowerQuery := strings.ToLower(query)
	simpleQuery := strings.ToLower(classSimpleName(query))

	type scored struct {
		name     string
		distance int
	}

	var candidates []scored
	seen := make(map[string]bool)

	for _, cr := range w.AllClasses() {
		name := cr.Class.InternalName
		if seen[name] {
			continue
		}
		lowerName := strings.ToLower(name)
		simpleName := strings.ToLower(classSimpleName(name))

		if strings.Contains(lowerName, lowerQuery) || strings.Contains(simpleName, simpleQuery) {
			seen[name] = true
			candidates = append(candidates, scored{name: name, distance: 0})
			continue
		}

		dist := levenshtein.ComputeDistance(simpleQuery, simpleName)
		if dist <= maxLevenshteinDistance {
			seen[name] = true
			candidates = append(candidates, scored{name: name, distance: dist})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}
