package domain

// NodeKind discriminates the payload carried by a tree node.
type NodeKind int

const (
	NodeWorkspace NodeKind = iota
	NodeFile
	NodeTest
)

// Node is the tagged variant associated with a UI tree entry. The payload is
// owned by the tree and dies with the node, so there is no side table that
// can dangle after removal.
type Node struct {
	Kind      NodeKind
	Workspace string      // NodeWorkspace: root path
	File      *SourceFile // NodeFile
	Test      *TestCase   // NodeTest
}
