package search

import (
	"bufio"
	"context"
	"strings"

	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
	"github.com/tha23rd/recaf-mcp-sub000/internal/concurrency"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

const (
	defaultTextualClassCap = 50
	maxTextualClassCap     = 500
)

// DecompileFunc decompiles one class to source text. Callers inject their
// C11-backed, C4-cached decompiler so this package stays free of a
// dependency on the capability/cache layers.
type DecompileFunc func(ctx context.Context, class bytecode.Class) (string, error)

// TextualMatch is one line-level hit from the decompilation search path.
type TextualMatch struct {
	ClassName  string
	LineNumber int
	Text       string
}

// RunTextual decompiles every in-scope class (optionally restricted to the
// primary resource and/or a package prefix) and regex-matches each line,
// bounded by classCap (<=0 defaults to 50, capped at 500).
func RunTextual(ctx context.Context, w *workspace.Workspace, predicate Predicate, decompile DecompileFunc,
	pool *concurrency.Pool, primaryOnly bool, packagePrefix string, classCap int) ([]TextualMatch, error) {

	if classCap <= 0 {
		classCap = defaultTextualClassCap
	}
	if classCap > maxTextualClassCap {
		classCap = maxTextualClassCap
	}

	resources := w.Resources()
	type scoped struct {
		class bytecode.Class
	}
	var inScope []scoped
	for _, r := range resources {
		if primaryOnly && r.Kind != workspace.ResourcePrimary {
			continue
		}
		for _, c := range r.Bundle.Classes() {
			if packagePrefix != "" && !strings.HasPrefix(c.InternalName, packagePrefix) {
				continue
			}
			inScope = append(inScope, scoped{class: c})
			if len(inScope) >= classCap {
				break
			}
		}
		if len(inScope) >= classCap {
			break
		}
	}

	perClass := make([][]TextualMatch, len(inScope))
	err := pool.Run(ctx, len(inScope), func(ctx context.Context, i int) error {
		c := inScope[i].class
		src, err := decompile(ctx, c)
		if err != nil {
			return err
		}
		perClass[i] = matchLines(c.InternalName, src, predicate)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var out []TextualMatch
	for _, ms := range perClass {
		out = append(out, ms...)
	}
	return out, nil
}

func matchLines(className, src string, predicate Predicate) []TextualMatch {
	var out []TextualMatch
	scanner := bufio.NewScanner(strings.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if predicate.Match(text) {
			out = append(out, TextualMatch{ClassName: className, LineNumber: line, Text: text})
		}
	}
	return out
}
