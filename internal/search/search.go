// Package search implements the search engine (C6): a set of tagged query
// variants matched in parallel across every class in a workspace, plus a
// second textual-decompilation search path over C11 decompiler output.
package search

import (
	"context"
	"sort"
	"strconv"

	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
	"github.com/tha23rd/recaf-mcp-sub000/internal/concurrency"
	"github.com/tha23rd/recaf-mcp-sub000/internal/workspace"
)

// Run executes q across every class in w, fanning out one task per class
// over pool, then orders and paginates the combined results per §4.C6.
func Run(ctx context.Context, w *workspace.Workspace, q Query, pool *concurrency.Pool, offset, limit int) (Page, error) {
	resources := w.Resources()
	order := make(map[*workspace.Resource]int, len(resources))
	for i, r := range resources {
		order[r] = i
	}

	type classEntry struct {
		class    bytecode.Class
		resource *workspace.Resource
	}
	var classes []classEntry
	for _, r := range resources {
		for _, c := range r.Bundle.Classes() {
			classes = append(classes, classEntry{class: c, resource: r})
		}
	}

	perClass := make([][]Result, len(classes))
	err := pool.Run(ctx, len(classes), func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		ce := classes[i]
		perClass[i] = matchClass(q, ce.class, ce.resource.Name, order[ce.resource])
		return nil
	})
	if err != nil {
		return Page{}, err
	}

	var all []Result
	for _, rs := range perClass {
		all = append(all, rs...)
	}
	sort.SliceStable(all, func(i, j int) bool { return less(all[i], all[j]) })

	return paginate(all, offset, limit), nil
}

// matchClass dispatches to the per-kind visitor. The instruction-scoped
// visitors (string, number, reference, instruction) skip bytecode.Method
// entries with Corrupt set, matching the analysis package's exclusion of
// corrupt methods: search is a consumer of the same decoded instruction
// lists analysis reads, not a raw class-file listing. matchDeclarationQuery
// is a listing over method/field names rather than instruction content, so
// corrupt methods remain visible there per §4.C5's "excluded from analyses,
// not from listings" contract.
func matchClass(q Query, c bytecode.Class, resourceName string, resourceOrder int) []Result {
	switch q.Kind {
	case KindString:
		return matchStringQuery(q, c, resourceName, resourceOrder)
	case KindNumber:
		return matchNumberQuery(q, c, resourceName, resourceOrder)
	case KindReference:
		return matchReferenceQuery(q, c, resourceName, resourceOrder)
	case KindDeclaration:
		return matchDeclarationQuery(q, c, resourceName, resourceOrder)
	case KindInstruction:
		return matchInstructionQuery(q, c, resourceName, resourceOrder)
	default:
		return nil
	}
}

func matchStringQuery(q Query, c bytecode.Class, resourceName string, resourceOrder int) []Result {
	var out []Result
	rank := 0
	for _, m := range c.Methods {
		if m.Corrupt {
			rank++
			continue
		}
		for idx, instr := range m.Instructions {
			if instr.Kind != bytecode.KindLdc || !instr.LdcIsString {
				continue
			}
			if q.ValuePredicate.Match(instr.LdcLiteral) {
				out = append(out, Result{
					Resource: resourceName, ClassName: c.InternalName,
					Member: m.Name, MemberDesc: m.Desc, InstructionIndex: idx,
					MatchText: instr.LdcLiteral, resourceOrder: resourceOrder, memberRank: rank,
				})
			}
		}
		for _, lv := range m.LocalVars {
			if lv.Name != "" && q.ValuePredicate.Match(lv.Name) {
				out = append(out, Result{
					Resource: resourceName, ClassName: c.InternalName,
					Member: m.Name, MemberDesc: m.Desc, InstructionIndex: -1,
					MatchText: lv.Name, resourceOrder: resourceOrder, memberRank: rank,
				})
			}
		}
		rank++
	}
	return out
}

func matchNumberQuery(q Query, c bytecode.Class, resourceName string, resourceOrder int) []Result {
	var out []Result
	rank := 0
	for _, m := range c.Methods {
		if m.Corrupt {
			rank++
			continue
		}
		for idx, instr := range m.Instructions {
			switch {
			case instr.Kind == bytecode.KindLdc && !instr.LdcIsClass && !instr.LdcIsString:
				if q.ValuePredicate.Match(instr.LdcLiteral) {
					out = append(out, Result{
						Resource: resourceName, ClassName: c.InternalName,
						Member: m.Name, MemberDesc: m.Desc, InstructionIndex: idx,
						MatchText: instr.LdcLiteral, resourceOrder: resourceOrder, memberRank: rank,
					})
				}
			case instr.Kind == bytecode.KindIntPush:
				text := strconv.FormatInt(instr.IntValue, 10)
				if q.ValuePredicate.Match(text) {
					out = append(out, Result{
						Resource: resourceName, ClassName: c.InternalName,
						Member: m.Name, MemberDesc: m.Desc, InstructionIndex: idx,
						MatchText: text, resourceOrder: resourceOrder, memberRank: rank,
					})
				}
			}
		}
		rank++
	}
	return out
}

func matchReferenceQuery(q Query, c bytecode.Class, resourceName string, resourceOrder int) []Result {
	var out []Result
	rank := 0
	for _, m := range c.Methods {
		if m.Corrupt {
			rank++
			continue
		}
		for idx, instr := range m.Instructions {
			switch instr.Kind {
			case bytecode.KindMethodRef, bytecode.KindFieldRef:
				if MatchOptional(q.OwnerPredicate, instr.Owner) &&
					MatchOptional(q.NamePredicate, instr.Name) &&
					MatchOptional(q.DescPredicate, instr.Desc) {
					out = append(out, Result{
						Resource: resourceName, ClassName: c.InternalName,
						Member: m.Name, MemberDesc: m.Desc, InstructionIndex: idx,
						MatchText: instr.NormalizedText(), resourceOrder: resourceOrder, memberRank: rank,
					})
				}
			case bytecode.KindInvokeDynamic:
				if MatchOptional(q.OwnerPredicate, instr.Bootstrap.OwnerInternal) &&
					MatchOptional(q.NamePredicate, instr.Bootstrap.Name) &&
					MatchOptional(q.DescPredicate, instr.Bootstrap.Desc) {
					out = append(out, Result{
						Resource: resourceName, ClassName: c.InternalName,
						Member: m.Name, MemberDesc: m.Desc, InstructionIndex: idx,
						MatchText: instr.NormalizedText(), resourceOrder: resourceOrder, memberRank: rank,
					})
				}
			}
		}
		rank++
	}
	return out
}

func matchDeclarationQuery(q Query, c bytecode.Class, resourceName string, resourceOrder int) []Result {
	var out []Result
	rank := 0

	if MatchOptional(q.NamePredicate, c.InternalName) {
		out = append(out, Result{
			Resource: resourceName, ClassName: c.InternalName, InstructionIndex: -1,
			MatchText: c.InternalName, resourceOrder: resourceOrder, memberRank: rank,
		})
	}
	rank++

	for _, f := range c.Fields {
		if MatchOptional(q.OwnerPredicate, c.InternalName) && MatchOptional(q.NamePredicate, f.Name) &&
			MatchOptional(q.DescPredicate, f.Desc) {
			out = append(out, Result{
				Resource: resourceName, ClassName: c.InternalName, Member: f.Name, MemberDesc: f.Desc,
				InstructionIndex: -1, MatchText: f.Name, resourceOrder: resourceOrder, memberRank: rank,
			})
		}
		rank++
	}
	for _, m := range c.Methods {
		if MatchOptional(q.OwnerPredicate, c.InternalName) && MatchOptional(q.NamePredicate, m.Name) &&
			MatchOptional(q.DescPredicate, m.Desc) {
			out = append(out, Result{
				Resource: resourceName, ClassName: c.InternalName, Member: m.Name, MemberDesc: m.Desc,
				InstructionIndex: -1, MatchText: m.Name, resourceOrder: resourceOrder, memberRank: rank,
			})
		}
		rank++
	}
	return out
}

func matchInstructionQuery(q Query, c bytecode.Class, resourceName string, resourceOrder int) []Result {
	k := len(q.InstructionPredicates)
	if k == 0 {
		return nil
	}
	var out []Result
	rank := 0
	for _, m := range c.Methods {
		if m.Corrupt {
			rank++
			continue
		}
		n := len(m.Instructions)
		for start := 0; start+k <= n; start++ {
			matched := true
			for j := 0; j < k; j++ {
				if !q.InstructionPredicates[j].Match(m.Instructions[start+j].NormalizedText()) {
					matched = false
					break
				}
			}
			if matched {
				out = append(out, Result{
					Resource: resourceName, ClassName: c.InternalName,
					Member: m.Name, MemberDesc: m.Desc, InstructionIndex: start,
					MatchText: m.Instructions[start].NormalizedText(), resourceOrder: resourceOrder, memberRank: rank,
				})
			}
		}
		rank++
	}
	return out
}
