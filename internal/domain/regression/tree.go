package regression

import (
	"math/rand"
	"sort"
)

// minImpurityDecrease ignores splits whose gain is numerical noise.
const minImpurityDecrease = 1e-12

// Node is one node of a flattened regression tree. Leaves have Feature == -1.
type Node struct {
	Feature   int
	Threshold float64 // x[Feature] <= Threshold goes left
	Left      int
	Right     int
	Value     float64 // mean target of the samples that reached the node
	Samples   int
}

// Leaf reports whether the node is terminal.
func (n Node) Leaf() bool { return n.Feature < 0 }

// Tree is a CART regression tree stored as a flat node slice rooted at index 0.
type Tree struct {
	Nodes []Node
}

// Predict walks the tree for a single row.
func (t *Tree) Predict(row []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf() {
			return n.Value
		}
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// builder grows one tree by greedy variance reduction.
type builder struct {
	cols   [][]float64 // column-major features
	y      []float64
	params Params
	rnd    *rand.Rand
	nodes  []Node
	gain   []float64 // per-feature impurity decrease
}

type split struct {
	ok        bool
	feature   int
	threshold float64
	sse       float64
}

func growTree(cols [][]float64, y []float64, idx []int, params Params, rnd *rand.Rand) (Tree, []float64) {
	b := &builder{
		cols:   cols,
		y:      y,
		params: params,
		rnd:    rnd,
		gain:   make([]float64, len(cols)),
	}
	b.grow(idx, 0)
	return Tree{Nodes: b.nodes}, b.gain
}

func (b *builder) grow(idx []int, depth int) int {
	var sum, sumSq float64
	for _, i := range idx {
		sum += b.y[i]
		sumSq += b.y[i] * b.y[i]
	}
	n := float64(len(idx))
	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: -1, Value: sum / n, Samples: len(idx)})

	p := b.params
	if len(idx) < p.MinSamplesSplit || len(idx) < 2*p.MinSamplesLeaf {
		return id
	}
	if p.MaxDepth > 0 && depth >= p.MaxDepth {
		return id
	}
	sse := sumSq - sum*sum/n
	if sse <= minImpurityDecrease {
		return id
	}

	best := b.bestSplit(idx, sum, sumSq, sse)
	if !best.ok {
		return id
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	x := b.cols[best.feature]
	for _, i := range idx {
		if x[i] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	b.gain[best.feature] += sse - best.sse

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[id].Feature = best.feature
	b.nodes[id].Threshold = best.threshold
	b.nodes[id].Left = l
	b.nodes[id].Right = r
	return id
}

// candidates returns the feature indices examined at one node.
func (b *builder) candidates() []int {
	p := len(b.cols)
	if k := b.params.MaxFeatures; k > 0 && k < p {
		return b.rnd.Perm(p)[:k]
	}
	all := make([]int, p)
	for j := range all {
		all[j] = j
	}
	return all
}

func (b *builder) bestSplit(idx []int, sum, sumSq, sse float64) split {
	best := split{sse: sse - minImpurityDecrease}
	minLeaf := b.params.MinSamplesLeaf
	sorted := make([]int, len(idx))

	for _, f := range b.candidates() {
		x := b.cols[f]
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, c int) bool { return x[sorted[a]] < x[sorted[c]] })

		var lSum, lSq float64
		n := len(sorted)
		for k := 0; k < n-1; k++ {
			yk := b.y[sorted[k]]
			lSum += yk
			lSq += yk * yk
			nl := k + 1
			nr := n - nl
			if nl < minLeaf {
				continue
			}
			if nr < minLeaf {
				break
			}
			v, next := x[sorted[k]], x[sorted[k+1]]
			if v == next {
				continue
			}
			rSum := sum - lSum
			total := (lSq - lSum*lSum/float64(nl)) + ((sumSq - lSq) - rSum*rSum/float64(nr))
			if total < best.sse {
				th := v + (next-v)/2
				if th >= next {
					th = v
				}
				best = split{ok: true, feature: f, threshold: th, sse: total}
			}
		}
	}
	return best
}
