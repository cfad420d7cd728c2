package mdtree

// TextVisitor is called for a text leaf at parent.Children[index]. It returns
// how many nodes occupy the leaf's former slot once it is done; the walk
// resumes after them, so replacements are never visited in the same pass.
type TextVisitor func(parent *Node, index int) int

// WalkText visits every text leaf below root, depth-first and pre-order.
// A root that is itself a text leaf has no parent and is not visited.
func WalkText(root *Node, visit TextVisitor) {
	if root == nil || root.Kind == KindText {
		return
	}
	walkChildren(root, visit)
}

func walkChildren(parent *Node, visit TextVisitor) {
	for i := 0; i < len(parent.Children); {
		child := parent.Children[i]
		if child == nil {
			i++
			continue
		}
		if child.Kind == KindText {
			n := visit(parent, i)
			if n < 1 {
				n = 1
			}
			i += n
			continue
		}
		walkChildren(child, visit)
		i++
	}
}

// Walk calls fn for n and every descendant in pre-order. Returning false
// from fn skips that node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
