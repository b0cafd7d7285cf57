// Package xref implements the cross-reference service (C7): xrefs-to via a
// C6 reference query, and xrefs-from via a C5 analysis of a single class,
// computed on each call (the analysis cache is not consulted).
package xref

import (
	"context"
	"sort"

	"github.com/tha23rd/recaf-mcp-sub000/internal/analysis"
	"github.com/tha23rd/recaf-mcp-sub000/internal/apierr"
	"github.com/tha23rd/recaf-mcp-sub000/internal/concurrency"
	"github.com/tha23rd/recaf-mcp-sub000/internal/search"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

// ToHit is one {class, member, instruction-index} triple from xrefs-to.
type ToHit struct {
	Class            string
	Member           string
	MemberDesc       string
	InstructionIndex int
}

// ToResult is the shaped xrefs-to response.
type ToResult struct {
	Hits  []ToHit
	Total int
}

// To issues a ReferenceQuery with equality predicates on (owner, name?,
// desc?) and shapes the matches as {class, member, instruction-index}
// triples. name and desc are optional (nil means match-anything).
func To(ctx context.Context, w *workspace.Workspace, pool *concurrency.Pool, owner string, name, desc *string, offset, limit int) (ToResult, error) {
	ownerPred := search.Equals(owner)
	var namePred, descPred *search.Predicate
	if name != nil {
		p := search.Equals(*name)
		namePred = &p
	}
	if desc != nil {
		p := search.Equals(*desc)
		descPred = &p
	}

	q := search.NewReferenceQuery(&ownerPred, namePred, descPred)
	page, err := search.Run(ctx, w, q, pool, offset, limit)
	if err != nil {
		return ToResult{}, err
	}

	hits := make([]ToHit, 0, len(page.Results))
	for _, r := range page.Results {
		hits = append(hits, ToHit{
			Class: r.ClassName, Member: r.Member, MemberDesc: r.MemberDesc,
			InstructionIndex: r.InstructionIndex,
		})
	}
	return ToResult{Hits: hits, Total: page.Total}, nil
}

// ToCount runs the same query as To but discards the materialized results,
// returning only the total count — the documented count-only variant.
func ToCount(ctx context.Context, w *workspace.Workspace, pool *concurrency.Pool, owner string, name, desc *string) (int, error) {
	res, err := To(ctx, w, pool, owner, name, desc, 0, 1)
	if err != nil {
		return 0, err
	}
	return res.Total, nil
}

// FromResult is the shaped xrefs-from response: the three reference lists
// extracted by C5 for one class, optionally narrowed to a single method.
type FromResult struct {
	MethodRefs        []analysis.MethodRefUse
	FieldRefs         []analysis.FieldRefUse
	InvokeDynamicRefs []analysis.InvokeDynamicUse
	TypeRefs          []string
}

// From computes the C5 analysis of the target class with analysis.Analyze
// on every call (no cache is read or filled), optionally filtered to a
// single method (methodName/methodDesc both non-empty).
func From(w *workspace.Workspace, className string, methodName, methodDesc string) (FromResult, *apierr.Error) {
	class, _, ok := w.LookupClass(className)
	if !ok {
		return FromResult{}, apierr.NotFound("class not found: "+className, nil)
	}

	ca := analysis.Analyze(class)

	if methodName != "" {
		ma, found := ca.MethodAnalysis(methodName, methodDesc)
		if !found {
			return FromResult{}, apierr.NotFound("method not found: "+methodName+methodDesc, nil)
		}
		return FromResult{
			MethodRefs: ma.MethodRefs, FieldRefs: ma.FieldRefs,
			InvokeDynamicRefs: ma.InvokeDynamicRefs, TypeRefs: ma.TypeRefs,
		}, nil
	}

	return aggregateClassRefs(ca), nil
}

// aggregateClassRefs merges every method's reference lists for a
// whole-class xrefs-from query, preserving method declaration order.
func aggregateClassRefs(ca analysis.ClassAnalysis) FromResult {
	var out FromResult
	typeSet := make(map[string]bool)
	for _, ma := range ca.Methods {
		out.MethodRefs = append(out.MethodRefs, ma.MethodRefs...)
		out.FieldRefs = append(out.FieldRefs, ma.FieldRefs...)
		out.InvokeDynamicRefs = append(out.InvokeDynamicRefs, ma.InvokeDynamicRefs...)
		for _, t := range ma.TypeRefs {
			typeSet[t] = true
		}
	}
	for t := range typeSet {
		out.TypeRefs = append(out.TypeRefs, t)
	}
	sort.Strings(out.TypeRefs)
	return out
}
