package repository

import (
	"fmt"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Treap-based ranking index.
//
// Ordering: key DESC, then id ASC (deterministic). "less" means ranks
// earlier, so an in-order traversal yields the ranking from best to worst.
// Node priorities are a hash of the id, which keeps the tree balanced in
// expectation and its shape reproducible.

// Ranked is one indexed id with its key and the value it is ranked by.
type Ranked struct {
	Rank  int
	ID    string
	Key   float64
	Value float64
}

// Scale maps a key to the value shown and compared for ties. It must be
// non-decreasing in the key. A nil Scale ranks on the key itself.
type Scale func(key float64) float64

func (s Scale) apply(key float64) float64 {
	if s == nil {
		return key
	}
	return s(key)
}

type node struct {
	id    string
	key   float64
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aKey, aID) should appear before (bKey, bID).
func less(aKey float64, aID string, bKey float64, bID string) bool {
	if aKey != bKey {
		return aKey > bKey
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, key float64) *node {
	if n == nil {
		return &node{id: id, key: key, prio: xxhash.Sum64String(id), size: 1}
	}
	if less(key, id, n.key, n.id) {
		n.left = insert(n.left, id, key)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, key)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, key float64) *node {
	if n == nil {
		return nil
	}
	if key == n.key && id == n.id {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, key)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, key)
		}
	} else if less(key, id, n.key, n.id) {
		n.left = deleteNode(n.left, id, key)
	} else {
		n.right = deleteNode(n.right, id, key)
	}
	fix(n)
	return n
}

// countAbove returns how many nodes satisfy above, which must hold for
// every key greater than one it holds for.
func countAbove(n *node, above func(key float64) bool) int {
	if n == nil {
		return 0
	}
	if above(n.key) {
		return nsize(n.left) + 1 + countAbove(n.right, above)
	}
	return countAbove(n.left, above)
}

// collectTopN appends up to limit nodes in rank order.
func collectTopN(n *node, limit int, out *[]Ranked) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, Ranked{ID: n.id, Key: n.key})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// RankIndex orders ids by a float key, highest first.
type RankIndex struct {
	mu   sync.RWMutex
	root *node
	keys map[string]float64
}

// NewRankIndex creates an empty index.
func NewRankIndex() *RankIndex {
	return &RankIndex{keys: make(map[string]float64)}
}

// Upsert sets the key for id in O(log n) expected time.
func (x *RankIndex) Upsert(id string, key float64) {
	key = normalizeKey(key)
	x.mu.Lock()
	defer x.mu.Unlock()
	if old, ok := x.keys[id]; ok {
		if old == key {
			return
		}
		x.root = deleteNode(x.root, id, old)
	}
	x.keys[id] = key
	x.root = insert(x.root, id, key)
}

// Rank returns the competition rank of id under scale: one plus the number
// of ids whose scaled key is strictly greater, so equal values share a rank.
func (x *RankIndex) Rank(id string, scale Scale) (Ranked, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	key, ok := x.keys[id]
	if !ok {
		return Ranked{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	v := scale.apply(key)
	above := countAbove(x.root, func(k float64) bool { return scale.apply(k) > v })
	return Ranked{Rank: above + 1, ID: id, Key: key, Value: v}, nil
}

// TopN returns the n best ids, ranked under scale with ties sharing a rank.
func (x *RankIndex) TopN(n int, scale Scale) ([]Ranked, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]Ranked, 0, min(n, len(x.keys)))
	collectTopN(x.root, n, &out)
	for i := range out {
		out[i].Value = scale.apply(out[i].Key)
	}
	assignRanksWithTies(out)
	return out, nil
}

// Len returns the number of indexed ids.
func (x *RankIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.keys)
}

// assignRanksWithTies assigns competition ranks to a prefix of the ranking:
// entries with equal values share a rank and the next distinct value takes
// its position.
func assignRanksWithTies(entries []Ranked) {
	for i := range entries {
		if i > 0 && entries[i].Value == entries[i-1].Value {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}

// normalizeKey maps NaN to the lowest possible key so ordering stays total.
func normalizeKey(k float64) float64 {
	if math.IsNaN(k) {
		return math.Inf(-1)
	}
	return k
}
