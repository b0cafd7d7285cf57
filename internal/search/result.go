package search

// Result is one match, carrying enough identity to extract owner class,
// member triple, and instruction index, plus the typed path chain.
type Result struct {
	Resource         string
	ClassName        string
	Member           string // method or field name; empty for a class-level match
	MemberDesc       string
	InstructionIndex int // -1 when the match is not instruction-scoped
	MatchText        string

	resourceOrder int
	memberRank    int
}

// Path reconstructs the Workspace → Resource → Bundle → Class → Member →
// Instruction chain for this result.
func (r Result) Path() PathChain {
	return buildPath(r.Resource, r.ClassName, r.Member, r.InstructionIndex)
}

func less(a, b Result) bool {
	if a.resourceOrder != b.resourceOrder {
		return a.resourceOrder < b.resourceOrder
	}
	if a.ClassName != b.ClassName {
		return a.ClassName < b.ClassName
	}
	if a.memberRank != b.memberRank {
		return a.memberRank < b.memberRank
	}
	return a.InstructionIndex < b.InstructionIndex
}

// Page is a paginated slice of ordered results.
type Page struct {
	Results []Result
	Total   int
	Offset  int
	Limit   int
	HasMore bool
}

const (
	defaultOffset = 0
	defaultLimit  = 100
	maxLimit      = 1000
)

// normalizePagination applies §4.C6's documented defaults (0/100) and
// maximum (1000). An explicit limit of 0 is a valid request for zero
// items and is left alone; only a negative limit falls back to the
// default, since the unspecified case is already covered by the
// operation schema's default before limit ever reaches here.
func normalizePagination(offset, limit int) (int, int) {
	if offset < 0 {
		offset = defaultOffset
	}
	if limit < 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return offset, limit
}

func paginate(all []Result, offset, limit int) Page {
	offset, limit = normalizePagination(offset, limit)
	total := len(all)

	if offset >= total {
		return Page{Results: []Result{}, Total: total, Offset: offset, Limit: limit, HasMore: false}
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return Page{
		Results: all[offset:end],
		Total:   total,
		Offset:  offset,
		Limit:   limit,
		HasMore: end < total,
	}
}
