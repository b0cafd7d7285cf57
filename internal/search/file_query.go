package search

import (
	"context"
	"sort"

	"github.com/tha23rd/recaf-mcp-sub000/internal/concurrency"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

// snippetRadius is the number of characters shown on either side of the
// first content hit in a FileQuery match, per §4.C6.
const snippetRadius = 50

// RunFileQuery matches q against non-class file names and (for text files)
// content, across every resource in w.
func RunFileQuery(ctx context.Context, w *workspace.Workspace, q Query, pool *concurrency.Pool, offset, limit int) (Page, error) {
	resources := w.Resources()
	order := make(map[*workspace.Resource]int, len(resources))
	for i, r := range resources {
		order[r] = i
	}

	type fileEntry struct {
		file     workspace.File
		resource *workspace.Resource
	}
	var files []fileEntry
	for _, r := range resources {
		for _, f := range r.Bundle.Files() {
			files = append(files, fileEntry{file: f, resource: r})
		}
	}

	perFile := make([][]Result, len(files))
	err := pool.Run(ctx, len(files), func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		fe := files[i]
		perFile[i] = matchFile(q, fe.file, fe.resource.Name, order[fe.resource])
		return nil
	})
	if err != nil {
		return Page{}, err
	}

	var all []Result
	for _, rs := range perFile {
		all = append(all, rs...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].resourceOrder != all[j].resourceOrder {
			return all[i].resourceOrder < all[j].resourceOrder
		}
		return all[i].ClassName < all[j].ClassName
	})

	return paginate(all, offset, limit), nil
}

func matchFile(q Query, f workspace.File, resourceName string, resourceOrder int) []Result {
	if q.FilePredicate.Match(f.Name) {
		return []Result{{
			Resource: resourceName, ClassName: f.Name, InstructionIndex: -1,
			MatchText: f.Name, resourceOrder: resourceOrder,
		}}
	}
	if !f.IsText {
		return nil
	}
	content := string(f.Bytes)
	start, end, ok := q.FilePredicate.Find(content)
	if !ok {
		return nil
	}
	snippet := snippetAround(content, start, end)
	return []Result{{
		Resource: resourceName, ClassName: f.Name, InstructionIndex: -1,
		MatchText: snippet, resourceOrder: resourceOrder,
	}}
}

// snippetAround returns a ±snippetRadius-char window around [start,end) in
// content, per §4.C6's documented snippet shape.
func snippetAround(content string, start, end int) string {
	lo := start - snippetRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + snippetRadius
	if hi > len(content) {
		hi = len(content)
	}
	return content[lo:hi]
}
