// Package proctree rebuilds the parent/child forest from a flat process list
// and flattens it into a depth-annotated pre-order sequence.
//
// Only records whose parent pid is absent are roots. A record whose parent is
// present in the input list is attached to it; a record whose parent pid is
// set but missing from the input is unreachable and is left out of the
// forest together with its descendants.
package proctree

import "github.com/Iron-Ham/procview/internal/process"

// Node is a process and its children, in input order.
type Node struct {
	Record   *process.Record
	Children []*Node
}

// Forest is the set of root nodes, in input order.
type Forest struct {
	Roots []*Node
}

// Build constructs the forest. Records are borrowed, not copied; the forest
// must not outlive the slice it was built from. Each pid is visited at most
// once, so parent cycles in the input terminate.
func Build(records []process.Record) *Forest {
	nodes := make(map[int32]*Node, len(records))
	for i := range records {
		nodes[records[i].PID] = &Node{Record: &records[i]}
	}

	children := make(map[int32][]int32)
	var rootPIDs []int32
	for i := range records {
		r := &records[i]
		if ppid, ok := r.Parent(); ok {
			children[ppid] = append(children[ppid], r.PID)
		} else {
			rootPIDs = append(rootPIDs, r.PID)
		}
	}

	// take removes a node from the pool so it can be attached exactly once.
	take := func(pid int32) *Node {
		n, ok := nodes[pid]
		if !ok {
			return nil
		}
		delete(nodes, pid)
		return n
	}

	forest := &Forest{}
	for _, rootPID := range rootPIDs {
		root := take(rootPID)
		if root == nil {
			continue
		}
		forest.Roots = append(forest.Roots, root)

		stack := []*Node{root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			for _, childPID := range children[n.Record.PID] {
				child := take(childPID)
				if child == nil {
					continue
				}
				n.Children = append(n.Children, child)
				stack = append(stack, child)
			}
		}
	}

	return forest
}

// Walk visits every node in pre-order with its depth; roots have depth 0.
func (f *Forest) Walk(visit func(n *Node, depth int)) {
	type frame struct {
		node  *Node
		depth int
	}

	stack := make([]frame, 0, len(f.Roots))
	for i := len(f.Roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{f.Roots[i], 0})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(top.node, top.depth)

		kids := top.node.Children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{kids[i], top.depth + 1})
		}
	}
}

// Flatten returns the pre-order sequence of records and, in parallel, the
// depth of each.
func (f *Forest) Flatten() ([]*process.Record, []int) {
	var (
		records []*process.Record
		depths  []int
	)
	f.Walk(func(n *Node, depth int) {
		records = append(records, n.Record)
		depths = append(depths, depth)
	})
	return records, depths
}
