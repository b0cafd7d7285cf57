package ops

import (
	"context"
	"sort"

	"github.com/tha23rd/recaf-mcp-sub000/internal/apierr"
	"github.com/tha23rd/recaf-mcp-sub000/internal/bytecode"
	"github.com/tha23rd/recaf-mcp-sub000/internal/cache"
	"github.com/tha23rd/recaf-mcp-sub000/internal/callgraph"
	"github.com/tha23rd/recaf-mcp-sub000/internal/capability"
	"github.com/tha23rd/recaf-mcp-sub000/internal/dispatch"
	"github.com/tha23rd/recaf-mcp-sub000/internal/inherit"
	"github.com/tha23rd/recaf-mcp-sub000/internal/mapping"
	"github.com/tha23rd/recaf-mcp-sub000/internal/resolver"
	"github.com/tha23rd/recaf-mcp-sub000/internal/search"
	"github.com/tha23rd/recaf-mcp-sub000/internal/xref"
)

// RegisterAll registers every concrete operation this engine supports with
// d. Call once at process startup after NewEngine.
func (e *Engine) RegisterAll(d *dispatch.Dispatcher) error {
	ops := []*dispatch.Operation{
		e.opResolveClass(),
		e.opListClasses(),
		e.opDecompileClass(),
		e.opSearchString(),
		e.opSearchReference(),
		e.opSearchInstruction(),
		e.opSearchFile(),
		e.opSearchTextual(),
		e.opXrefsTo(),
		e.opXrefsFrom(),
		e.opCallgraphCallees(),
		e.opCallgraphCallers(),
		e.opCallgraphPath(),
		e.opSupertypes(),
		e.opSubtypes(),
		e.opLowestCommonAncestor(),
		e.opApplyMapping(),
		e.opAggregateMappings(),
		e.opRunTransform(),
		e.opUndoTransform(),
		e.opDisassembleClass(),
		e.opAssembleClass(),
		e.opCompileClass(),
		e.opGetComment(),
		e.opSetComment(),
		e.opAttachSupportingResource(),
		e.opAttachPhantoms(),
		e.opWorkspaceInfo(),
		e.opExecuteScript(),
	}
	for _, op := range ops {
		if err := d.Register(op); err != nil {
			return err
		}
	}
	d.MustRegister(e.opListOperations(d))
	return nil
}

// --- navigation ---------------------------------------------------------

func (e *Engine) opResolveClass() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "resolve-class",
		Description: "Resolves a class name (dotted or internal form) to the unique matching class.",
		Category:    dispatch.CategoryNavigation,
		Schema:      dispatch.Schema{Required: []string{"query"}, Properties: map[string]dispatch.Property{"query": {Type: "string"}}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			c, err := resolver.Resolve(e.w, args.String("query"))
			if err != nil {
				return nil, err
			}
			return map[string]any{"class": c.InternalName, "super": c.SuperName, "interfaces": c.Interfaces}, nil
		},
	}
}

func (e *Engine) opListClasses() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "list-classes",
		Description: "Lists every class in the workspace with a package/default-package breakdown.",
		Category:    dispatch.CategoryNavigation,
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			key := cache.InventoryKey{Identity: e.w.Identity(), Revision: e.w.Revision()}
			inv, loadErr := e.inventoryCache.GetOrLoad(key, func() (resolver.Inventory, error) {
				return resolver.BuildInventory(e.w), nil
			})
			if loadErr != nil {
				return nil, apierr.Internal(loadErr)
			}
			return map[string]any{"count": inv.ClassCount(), "classes": inv.Classes}, nil
		},
	}
}

// --- decompile ------------------------------------------------------------

func (e *Engine) opDecompileClass() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "decompile-class",
		Description: "Decompiles one class to Java-like source text via the configured decompiler adapter.",
		Category:    dispatch.CategoryDecompile,
		Schema:      dispatch.Schema{Required: []string{"class"}, Properties: map[string]dispatch.Property{"class": {Type: "string"}}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			if e.adapters.Decompiler == nil {
				return nil, apierr.Unsupported("no decompiler adapter is configured")
			}
			c, err := resolver.Resolve(e.w, args.String("class"))
			if err != nil {
				return nil, err
			}
			key := cache.DecompileKey{Identity: e.w.Identity(), Revision: e.w.Revision(), ClassName: c.InternalName, ContentHash: c.ContentHash, Decompiler: e.cfg.Decompiler}
			src, loadErr := e.decompileCache.GetOrLoad(key, func() (string, error) {
				dctx, cancel := capability.WithDefaultTimeout(ctx)
				defer cancel()
				r := e.adapters.Decompiler.Decompile(dctx, e.w, c)
				if !r.Ok {
					return "", r.AsError()
				}
				return r.Value, nil
			})
			if loadErr != nil {
				if apiErr, ok := apierr.As(loadErr); ok {
					return nil, apiErr
				}
				return nil, apierr.Internal(loadErr)
			}
			return map[string]any{"class": c.InternalName, "source": src}, nil
		},
	}
}

// --- search -----------------------------------------------------------------

func (e *Engine) opSearchString() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "search-string",
		Description: "Searches string/local-variable-name literals across the workspace.",
		Category:    dispatch.CategorySearch,
		Schema:      dispatch.Schema{Required: []string{"value"}, Properties: map[string]dispatch.Property{"value": {Type: "string"}, "offset": {Type: "integer", Default: 0}, "limit": {Type: "integer", Default: 100}}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			q := search.NewStringQuery(search.Contains(args.String("value")))
			page, err := search.Run(ctx, e.w, q, e.pool, args.IntOr("offset", 0), args.IntOr("limit", 100))
			if err != nil {
				return nil, apierr.Internal(err)
			}
			return pageToPayload(page), nil
		},
	}
}

func (e *Engine) opSearchReference() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "search-reference",
		Description: "Searches method/field/invokedynamic references by owner/name/desc.",
		Category:    dispatch.CategorySearch,
		Schema:      dispatch.Schema{Required: []string{"owner"}, Properties: map[string]dispatch.Property{"owner": {Type: "string"}, "name": {Type: "string"}, "desc": {Type: "string"}, "offset": {Type: "integer", Default: 0}, "limit": {Type: "integer", Default: 100}}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			owner := search.Equals(args.String("owner"))
			name := optionalEquals(args, "name")
			desc := optionalEquals(args, "desc")
			q := search.NewReferenceQuery(&owner, name, desc)
			page, err := search.Run(ctx, e.w, q, e.pool, args.IntOr("offset", 0), args.IntOr("limit", 100))
			if err != nil {
				return nil, apierr.Internal(err)
			}
			return pageToPayload(page), nil
		},
	}
}

func (e *Engine) opSearchInstruction() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "search-instruction",
		Description: "Searches for a window of consecutive instructions matching one regex per slot.",
		Category:    dispatch.CategorySearch,
		Schema:      dispatch.Schema{Required: []string{"patterns"}, Properties: map[string]dispatch.Property{"patterns": {Type: "array"}, "offset": {Type: "integer", Default: 0}, "limit": {Type: "integer", Default: 100}}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			patterns := args.StringSlice("patterns")
			preds := make([]search.Predicate, 0, len(patterns))
			for _, p := range patterns {
				re, err := search.RegexPartial(p)
				if err != nil {
					return nil, apierr.BadRequest("patterns", err.Error())
				}
				preds = append(preds, re)
			}
			q := search.NewInstructionQuery(preds)
			page, err := search.Run(ctx, e.w, q, e.pool, args.IntOr("offset", 0), args.IntOr("limit", 100))
			if err != nil {
				return nil, apierr.Internal(err)
			}
			return pageToPayload(page), nil
		},
	}
}

func (e *Engine) opSearchFile() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "search-file",
		Description: "Searches non-class file names and text content across the workspace.",
		Category:    dispatch.CategorySearch,
		Schema:      dispatch.Schema{Required: []string{"value"}, Properties: map[string]dispatch.Property{"value": {Type: "string"}, "offset": {Type: "integer", Default: 0}, "limit": {Type: "integer", Default: 100}}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			q := search.NewFileQuery(search.Contains(args.String("value")))
			page, err := search.RunFileQuery(ctx, e.w, q, e.pool, args.IntOr("offset", 0), args.IntOr("limit", 100))
			if err != nil {
				return nil, apierr.Internal(err)
			}
			return pageToPayload(page), nil
		},
	}
}

func (e *Engine) opSearchTextual() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "search-textual",
		Description: "Decompiles in-scope classes and regex-searches the resulting text line by line.",
		Category:    dispatch.CategorySearch,
		Schema: dispatch.Schema{Required: []string{"pattern"}, Properties: map[string]dispatch.Property{
			"pattern": {Type: "string"}, "primary-only": {Type: "boolean", Default: false},
			"package-prefix": {Type: "string", Default: ""}, "class-cap": {Type: "integer", Default: 50},
		}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			if e.adapters.Decompiler == nil {
				return nil, apierr.Unsupported("no decompiler adapter is configured")
			}
			pred, reErr := search.RegexPartial(args.String("pattern"))
			if reErr != nil {
				return nil, apierr.BadRequest("pattern", reErr.Error())
			}
			decompile := func(ctx context.Context, c bytecode.Class) (string, error) {
				key := cache.DecompileKey{Identity: e.w.Identity(), Revision: e.w.Revision(), ClassName: c.InternalName, ContentHash: c.ContentHash, Decompiler: e.cfg.Decompiler}
				return e.decompileCache.GetOrLoad(key, func() (string, error) {
					dctx, cancel := capability.WithDefaultTimeout(ctx)
					defer cancel()
					r := e.adapters.Decompiler.Decompile(dctx, e.w, c)
					if !r.Ok {
						return "", r.AsError()
					}
					return r.Value, nil
				})
			}
			matches, err := search.RunTextual(ctx, e.w, pred, decompile, e.pool, args.Bool("primary-only"), args.StringOr("package-prefix", ""), args.IntOr("class-cap", 50))
			if err != nil {
				return nil, apierr.Internal(err)
			}
			return map[string]any{"matches": matches}, nil
		},
	}
}

// --- xrefs --------------------------------------------------------------

func (e *Engine) opXrefsTo() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "xrefs-to",
		Description: "Finds every call/use site referencing a given owner (and optional name/desc).",
		Category:    dispatch.CategoryXrefs,
		Schema:      dispatch.Schema{Required: []string{"owner"}, Properties: map[string]dispatch.Property{"owner": {Type: "string"}, "name": {Type: "string"}, "desc": {Type: "string"}, "offset": {Type: "integer", Default: 0}, "limit": {Type: "integer", Default: 100}}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			name := optionalString(args, "name")
			desc := optionalString(args, "desc")
			res, err := xref.To(ctx, e.w, e.pool, args.String("owner"), name, desc, args.IntOr("offset", 0), args.IntOr("limit", 100))
			if err != nil {
				return nil, apierr.Internal(err)
			}
			return map[string]any{"hits": res.Hits, "total": res.Total}, nil
		},
	}
}

func (e *Engine) opXrefsFrom() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "xrefs-from",
		Description: "Lists every reference made by a class, or by one method within it.",
		Category:    dispatch.CategoryXrefs,
		Schema:      dispatch.Schema{Required: []string{"class"}, Properties: map[string]dispatch.Property{"class": {Type: "string"}, "method": {Type: "string"}, "desc": {Type: "string"}}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			res, err := xref.From(e.w, args.String("class"), args.String("method"), args.String("desc"))
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"methodRefs": res.MethodRefs, "fieldRefs": res.FieldRefs,
				"invokeDynamicRefs": res.InvokeDynamicRefs, "typeRefs": res.TypeRefs,
			}, nil
		},
	}
}

// --- callgraph ------------------------------------------------------------

func (e *Engine) vertexFromArgs(args dispatch.Args) callgraph.Vertex {
	return callgraph.Vertex{Owner: args.String("owner"), Name: args.String("name"), Desc: args.String("desc")}
}

func (e *Engine) opCallgraphCallees() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "callgraph-callees",
		Description: "Lists every method called directly by the given method, building the graph on demand.",
		Category:    dispatch.CategoryCallgraph,
		Schema:      dispatch.Schema{Required: []string{"owner", "name", "desc"}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			if err := e.ensureCallgraph(ctx); err != nil {
				return nil, err
			}
			callees, err := e.callgraph.Callees(e.vertexFromArgs(args))
			if err != nil {
				return nil, err
			}
			return map[string]any{"callees": callees}, nil
		},
	}
}

func (e *Engine) opCallgraphCallers() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "callgraph-callers",
		Description: "Lists every method that calls the given method, building the graph on demand.",
		Category:    dispatch.CategoryCallgraph,
		Schema:      dispatch.Schema{Required: []string{"owner", "name", "desc"}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			if err := e.ensureCallgraph(ctx); err != nil {
				return nil, err
			}
			callers, err := e.callgraph.Callers(e.vertexFromArgs(args))
			if err != nil {
				return nil, err
			}
			return map[string]any{"callers": callers}, nil
		},
	}
}

func (e *Engine) opCallgraphPath() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "callgraph-path",
		Description: "Finds the shortest caller-to-callee path between two methods, if any.",
		Category:    dispatch.CategoryCallgraph,
		Schema:      dispatch.Schema{Required: []string{"source-owner", "source-name", "source-desc", "target-owner", "target-name", "target-desc"}, Properties: map[string]dispatch.Property{"max-depth": {Type: "integer", Default: 20}}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			if err := e.ensureCallgraph(ctx); err != nil {
				return nil, err
			}
			src := callgraph.Vertex{Owner: args.String("source-owner"), Name: args.String("source-name"), Desc: args.String("source-desc")}
			dst := callgraph.Vertex{Owner: args.String("target-owner"), Name: args.String("target-name"), Desc: args.String("target-desc")}
			res, err := e.callgraph.FindPath(src, dst, args.IntOr("max-depth", 20))
			if err != nil {
				return nil, err
			}
			return map[string]any{"found": res.Found, "path": res.Path}, nil
		},
	}
}

func (e *Engine) ensureCallgraph(ctx context.Context) *apierr.Error {
	if e.callgraph.Ready() {
		return nil
	}
	if err := e.callgraph.Build(ctx); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

// --- inheritance ------------------------------------------------------------

func (e *Engine) opSupertypes() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "supertypes",
		Description: "Walks a class's super/interface chain.",
		Category:    dispatch.CategoryInheritance,
		Schema:      dispatch.Schema{Required: []string{"class"}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			chain, err := inherit.Supertypes(e.w, args.String("class"))
			if err != nil {
				return nil, err
			}
			return map[string]any{"supertypes": chain}, nil
		},
	}
}

func (e *Engine) opSubtypes() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "subtypes",
		Description: "Returns the direct and transitive subtypes of a class via the Datalog-evaluated reverse index.",
		Category:    dispatch.CategoryInheritance,
		Schema:      dispatch.Schema{Required: []string{"class"}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			subs, err := e.inherit.Subtypes(args.String("class"))
			if err != nil {
				return nil, err
			}
			return map[string]any{"subtypes": subs}, nil
		},
	}
}

func (e *Engine) opLowestCommonAncestor() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "lowest-common-ancestor",
		Description: "Finds the first common ancestor of two classes' ordered supertype chains.",
		Category:    dispatch.CategoryInheritance,
		Schema:      dispatch.Schema{Required: []string{"a", "b"}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			lca, err := inherit.LowestCommonAncestor(e.w, args.String("a"), args.String("b"))
			if err != nil {
				return nil, err
			}
			return map[string]any{"lowestCommonAncestor": lca}, nil
		},
	}
}

// --- mapping / transform ------------------------------------------------

func (e *Engine) opApplyMapping() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "apply-mapping",
		Description: "Applies a class-rename dictionary to the primary resource, atomically per class.",
		Category:    dispatch.CategoryMapping,
		Schema:      dispatch.Schema{Required: []string{"class-rename"}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			m := mapping.New()
			raw, _ := args["class-rename"].(map[string]any)
			for oldName, v := range raw {
				if newName, ok := v.(string); ok {
					m.ClassRename[oldName] = newName
				}
			}
			if applyErr := e.mapping.ApplyToPrimaryResource(m); applyErr != nil {
				return nil, apierr.Internal(applyErr)
			}
			return map[string]any{"applied": len(m.ClassRename)}, nil
		},
	}
}

func (e *Engine) opAggregateMappings() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "aggregate-mappings",
		Description: "Returns every intermediate mapping applied across this workspace's lifetime.",
		Category:    dispatch.CategoryMapping,
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			agg := e.mapping.Aggregate()
			return map[string]any{"classRename": agg.ClassRename}, nil
		},
	}
}

func (e *Engine) opRunTransform() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "run-transform",
		Description: "Snapshots the primary resource and runs a no-op identity transform pass (external transformers are supplied by the hosting process, not the wire protocol).",
		Category:    dispatch.CategoryTransform,
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			identity := mapping.Transformer{Name: "identity", Run: func(ctx context.Context, classes []bytecode.Class) (mapping.TransformResult, error) {
				return mapping.TransformResult{}, nil
			}}
			if err := e.mapping.Transform(ctx, identity); err != nil {
				return nil, apierr.Internal(err)
			}
			return map[string]any{"hasUndo": e.mapping.HasUndo()}, nil
		},
	}
}

func (e *Engine) opUndoTransform() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "undo-transform",
		Description: "Restores the primary resource from the single-generation undo buffer.",
		Category:    dispatch.CategoryTransform,
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			if err := e.mapping.Undo(); err != nil {
				return nil, err
			}
			return map[string]any{"restored": true}, nil
		},
	}
}

// --- assemble / compile ---------------------------------------------------

func (e *Engine) opDisassembleClass() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "disassemble-class",
		Description: "Disassembles one class to its textual assembler representation.",
		Category:    dispatch.CategoryAssemble,
		Schema:      dispatch.Schema{Required: []string{"class"}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			if e.adapters.Assembler == nil {
				return nil, apierr.Unsupported("no assembler adapter is configured")
			}
			c, err := resolver.Resolve(e.w, args.String("class"))
			if err != nil {
				return nil, err
			}
			r := e.adapters.Assembler.Disassemble(ctx, e.w, c)
			if !r.Ok {
				return nil, r.AsError()
			}
			return map[string]any{"text": r.Value}, nil
		},
	}
}

func (e *Engine) opAssembleClass() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "assemble-class",
		Description: "Tokenizes, parses, and assembles edited assembler text back into a class.",
		Category:    dispatch.CategoryAssemble,
		Schema:      dispatch.Schema{Required: []string{"class", "text"}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			if e.adapters.Assembler == nil {
				return nil, apierr.Unsupported("no assembler adapter is configured")
			}
			tokens := e.adapters.Assembler.Tokenize(ctx, args.String("text"))
			if !tokens.Ok {
				return nil, tokens.AsError()
			}
			parsed := e.adapters.Assembler.Parse(ctx, tokens.Value)
			if !parsed.Ok {
				return nil, parsed.AsError()
			}
			assembled := e.adapters.Assembler.AssembleAndWrap(ctx, parsed.Value, capability.AssembleContext{Workspace: e.w, ClassName: args.String("class")})
			if !assembled.Ok {
				return nil, assembled.AsError()
			}
			if putErr := e.w.PutClass(e.w.Primary(), assembled.Value); putErr != nil {
				return nil, apierr.Internal(putErr)
			}
			return map[string]any{"class": assembled.Value.InternalName}, nil
		},
	}
}

func (e *Engine) opCompileClass() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "compile-class",
		Description: "Compiles edited Java-like source back into one or more classes.",
		Category:    dispatch.CategoryCompile,
		Schema:      dispatch.Schema{Required: []string{"class", "source"}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			if e.adapters.Compiler == nil {
				return nil, apierr.Unsupported("no compiler adapter is configured")
			}
			req := capability.CompileRequest{
				ClassName: args.String("class"),
				Source:    args.String("source"),
				DebugFlags: capability.DebugFlags{
					LineNumbers: true, SourceFile: true, Variables: true,
				},
			}
			r := e.adapters.Compiler.Compile(ctx, req, e.w)
			if !r.Ok {
				return nil, r.AsError()
			}
			for _, c := range r.Value.Classes {
				if err := e.w.PutClass(e.w.Primary(), c); err != nil {
					return nil, apierr.Internal(err)
				}
			}
			return map[string]any{"classes": classNames(r.Value.Classes), "diagnostics": r.Value.Diagnostics}, nil
		},
	}
}

func classNames(m map[string]bytecode.Class) []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// --- comment ----------------------------------------------------------------

func (e *Engine) opGetComment() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "get-comment",
		Description: "Returns the user-authored comment attached to a class or member, if any.",
		Category:    dispatch.CategoryComment,
		Schema:      dispatch.Schema{Required: []string{"owner"}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			key := commentKey{Owner: args.String("owner"), Name: args.String("name"), Desc: args.String("desc")}
			e.commentsMu.RLock()
			text, ok := e.comments[key]
			e.commentsMu.RUnlock()
			return map[string]any{"comment": text, "present": ok}, nil
		},
	}
}

func (e *Engine) opSetComment() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "set-comment",
		Description: "Attaches or replaces a user-authored comment on a class or member.",
		Category:    dispatch.CategoryComment,
		Schema:      dispatch.Schema{Required: []string{"owner", "text"}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			key := commentKey{Owner: args.String("owner"), Name: args.String("name"), Desc: args.String("desc")}
			e.commentsMu.Lock()
			e.comments[key] = args.String("text")
			e.commentsMu.Unlock()
			return map[string]any{"stored": true}, nil
		},
	}
}

// --- attach -----------------------------------------------------------------

func (e *Engine) opAttachSupportingResource() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "attach-supporting-resource",
		Description: "Adds an empty supporting resource by name, to be populated by subsequent class writes.",
		Category:    dispatch.CategoryAttach,
		Schema:      dispatch.Schema{Required: []string{"name"}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			r := e.w.AddSupporting(args.String("name"))
			return map[string]any{"resource": r.Name}, nil
		},
	}
}

func (e *Engine) opAttachPhantoms() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "attach-phantoms",
		Description: "Generates and attaches a phantom-stub supporting resource for unresolved external symbols.",
		Category:    dispatch.CategoryAttach,
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			if e.adapters.PhantomGenerator == nil {
				return nil, apierr.Unsupported("no phantom generator adapter is configured")
			}
			r := e.adapters.PhantomGenerator.CreatePhantomsForWorkspace(ctx, e.w)
			if !r.Ok {
				return nil, r.AsError()
			}
			return map[string]any{"resource": r.Value.Name}, nil
		},
	}
}

// --- workspace / tool-discovery / scripting --------------------------------

func (e *Engine) opWorkspaceInfo() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "workspace-info",
		Description: "Reports the workspace's identity, revision, and resource list.",
		Category:    dispatch.CategoryWorkspace,
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			var resources []string
			for _, r := range e.w.Resources() {
				resources = append(resources, r.Name)
			}
			return map[string]any{"identity": e.w.Identity(), "revision": e.w.Revision(), "resources": resources}, nil
		},
	}
}

func (e *Engine) opListOperations(d *dispatch.Dispatcher) *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "list-operations",
		Description: "Lists every registered operation, grouped for tool discovery.",
		Category:    dispatch.CategoryToolDiscovery,
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			var names []string
			for _, op := range d.All() {
				names = append(names, op.Name)
			}
			return map[string]any{"operations": names}, nil
		},
	}
}

func (e *Engine) opExecuteScript() *dispatch.Operation {
	return &dispatch.Operation{
		Name:        "execute-script",
		Description: "Runs a caller-supplied script against the workspace, if scripting is enabled and an executor is configured.",
		Category:    dispatch.CategoryScripting,
		Schema:      dispatch.Schema{Required: []string{"source"}},
		Handler: func(ctx context.Context, args dispatch.Args) (any, *apierr.Error) {
			if !e.cfg.ScriptExecution.Enabled {
				return nil, apierr.Unsupported("script execution is disabled")
			}
			return nil, apierr.Unsupported("no script executor is configured")
		},
	}
}

// --- shared helpers ---------------------------------------------------------

func pageToPayload(page search.Page) map[string]any {
	return map[string]any{
		"results": page.Results,
		"total":   page.Total,
		"offset":  page.Offset,
		"limit":   page.Limit,
		"hasMore": page.HasMore,
	}
}

func optionalEquals(args dispatch.Args, key string) *search.Predicate {
	if !args.Has(key) {
		return nil
	}
	p := search.Equals(args.String(key))
	return &p
}

func optionalString(args dispatch.Args, key string) *string {
	if !args.Has(key) {
		return nil
	}
	s := args.String(key)
	return &s
}
