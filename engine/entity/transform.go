package entity

// Propagate recomputes world transforms in pre-order from the root.
// Child handles that are not live are skipped.
func Propagate(reg *Registry, root Component) {
	rb := root.base()
	rb.world = rb.Local

	stack := []*Base{rb}
	for len(stack) > 0 {
		parent := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i := len(parent.ChildIDs) - 1; i >= 0; i-- {
			child, ok := reg.Lookup(parent.ChildIDs[i])
			if !ok {
				continue
			}
			cb := child.base()
			cb.world = parent.world.Mul(cb.Local)
			stack = append(stack, cb)
		}
	}
}
