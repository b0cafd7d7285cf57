package search

import "strconv"

// NodeKind discriminates one link in a Result's path chain.
type NodeKind int

const (
	NodeWorkspace NodeKind = iota
	NodeResource
	NodeBundle
	NodeClass
	NodeMember
	NodeInstruction
)

// PathNode is one link in a Result's root-to-leaf path chain.
type PathNode struct {
	Kind  NodeKind
	Label string
}

// PathChain is the Workspace → Resource → Bundle → Class → Member →
// Instruction chain documented for every Result in §4.C6. Trailing links
// are omitted when not applicable (e.g. a class-declaration match has no
// Member or Instruction link).
type PathChain []PathNode

func buildPath(resourceName, className, member string, instructionIndex int) PathChain {
	chain := PathChain{
		{Kind: NodeWorkspace, Label: "workspace"},
		{Kind: NodeResource, Label: resourceName},
		{Kind: NodeBundle, Label: "classes"},
		{Kind: NodeClass, Label: className},
	}
	if member != "" {
		chain = append(chain, PathNode{Kind: NodeMember, Label: member})
	}
	if instructionIndex >= 0 {
		chain = append(chain, PathNode{Kind: NodeInstruction, Label: strconv.Itoa(instructionIndex)})
	}
	return chain
}
