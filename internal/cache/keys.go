package cache

// Every key begins with (workspace identity, revision) and is extended
// with cache-specific fields, per §4.C4.

// DecompileKey keys the decompile cache.
type DecompileKey struct {
	Identity   uint64
	Revision   uint64
	ClassName  string
	ContentHash uint32
	Decompiler string
}

// AnalysisKey keys the instruction-analysis cache.
type AnalysisKey struct {
	Identity    uint64
	Revision    uint64
	ClassName   string
	ContentHash uint32
}

// InventoryKey keys the inventory-snapshot cache; no fields beyond identity/revision.
type InventoryKey struct {
	Identity uint64
	Revision uint64
}

// QueryKey keys the query-result cache.
type QueryKey struct {
	Identity          uint64
	Revision          uint64
	ToolTag           string
	NormalizedQuery   string
}
