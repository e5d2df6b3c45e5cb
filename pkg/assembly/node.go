package assembly

import (
	"strconv"

	"gonum.org/v1/gonum/mat"

	"nd2array/pkg/axes"
)

// Node is one level of the assembled structure. A leaf holds a single
// frame; a branch is keyed by the indices of its axis (position and time)
// or by channel name (channel).
type Node struct {
	axis     axes.Axis
	leaf     bool
	frame    *mat.Dense
	children []*Node
	names    []string
}

// Key addresses a leaf. Fields for axes absent from the pattern are ignored.
type Key struct {
	Position int
	Channel  string
	Time     int
}

// IsLeaf reports whether the node holds a frame
func (n *Node) IsLeaf() bool {
	return n.leaf
}

// Frame returns the frame of a leaf, nil for a branch
func (n *Node) Frame() *mat.Dense {
	return n.frame
}

// Axis returns the axis a branch is keyed by
func (n *Node) Axis() axes.Axis {
	return n.axis
}

// Len returns the number of children
func (n *Node) Len() int {
	return len(n.children)
}

// Index returns the i-th child, nil if out of range
func (n *Node) Index(i int) *Node {
	if n.leaf || i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Channel returns the child stored under a channel name, nil if the node is
// not keyed by channel or the name is unknown
func (n *Node) Channel(name string) *Node {
	if n.leaf || n.axis != axes.Channel {
		return nil
	}
	for i, c := range n.names {
		if c == name {
			return n.Index(i)
		}
	}
	return nil
}

// Keys returns the keys of the children in order: channel names for a
// channel branch, decimal indices otherwise
func (n *Node) Keys() []string {
	if n.leaf {
		return nil
	}
	keys := make([]string, len(n.children))
	for i := range n.children {
		keys[i] = n.key(i)
	}
	return keys
}

func (n *Node) key(i int) string {
	if n.axis == axes.Channel {
		return n.names[i]
	}
	return strconv.Itoa(i)
}

// Lookup descends along k and returns the frame it addresses
func (n *Node) Lookup(k Key) (*mat.Dense, bool) {
	cur := n
	for cur != nil && !cur.leaf {
		switch cur.axis {
		case axes.Position:
			cur = cur.Index(k.Position)
		case axes.Channel:
			cur = cur.Channel(k.Channel)
		case axes.Time:
			cur = cur.Index(k.Time)
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur.frame, true
}

// Leaves counts the frames below n
func (n *Node) Leaves() int {
	if n.leaf {
		return 1
	}
	total := 0
	for _, c := range n.children {
		total += c.Leaves()
	}
	return total
}

// Walk calls fn for every leaf in storage order with the keys leading to it
func (n *Node) Walk(fn func(path []string, frame *mat.Dense) error) error {
	return n.walk(nil, fn)
}

func (n *Node) walk(path []string, fn func([]string, *mat.Dense) error) error {
	if n.leaf {
		return fn(path, n.frame)
	}
	for i, c := range n.children {
		if err := c.walk(append(path[:len(path):len(path)], n.key(i)), fn); err != nil {
			return err
		}
	}
	return nil
}
