package graph

import (
	"iter"

	"github.com/matzehuels/lobbymap/pkg/level"
)

// Walk yields root and all of its descendants in breadth-first order.
func Walk(root *level.Element) iter.Seq[*level.Element] {
	return func(yield func(*level.Element) bool) {
		if root == nil {
			return
		}
		queue := []*level.Element{root}
		for len(queue) > 0 {
			el := queue[0]
			queue = queue[1:]
			if !yield(el) {
				return
			}
			queue = append(queue, el.Children...)
		}
	}
}
