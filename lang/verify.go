package lang

// Verify checks that tree is a proper tree reachable from its root: every
// child index is in range and no node is reached twice. A node reached twice
// is reported as [ErrCyclicTree] whether it closes a cycle or is merely
// shared, since evaluation would either loop or render it twice.
//
// Failures are returned as *[StructureError].
func Verify(tree Tree) error {
	if tree.Root < 0 || tree.Root >= tree.Len() {
		return newStructureError(ErrEmptyTree, tree, tree.Root)
	}

	visited := make([]bool, tree.Len())
	pending := []int{tree.Root}
	visited[tree.Root] = true

	for len(pending) > 0 {
		i := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		for _, c := range tree.Nodes[i].Children() {
			if c < 0 || c >= tree.Len() {
				return newStructureError(ErrNodeIndex, tree, i)
			}

			if visited[c] {
				return newStructureError(ErrCyclicTree, tree, c)
			}

			visited[c] = true
			pending = append(pending, c)
		}
	}

	return nil
}
