package sequencing

import "github.com/google/btree"

// btreeDegree is the B-tree branching factor. The working set is always
// small (at most Window plus outstanding-unacked sequence numbers), so a
// modest degree keeps the tree shallow without over-allocating.
const btreeDegree = 32

// sequenceItem adapts a uint32 sequence number to btree.Item.
type sequenceItem uint32

func (s sequenceItem) Less(than btree.Item) bool {
	return s < than.(sequenceItem)
}

// orderedSet is an ordered set of uint32 sequence numbers offering
// O(log n) insert/remove and sorted min/max/iteration, as required by
// the spec's OrderedSet<u32> data type.
type orderedSet struct {
	tree *btree.BTree
}

func newOrderedSet() *orderedSet {
	return &orderedSet{tree: btree.New(btreeDegree)}
}

func (s *orderedSet) Len() int {
	return s.tree.Len()
}

func (s *orderedSet) Insert(v uint32) {
	s.tree.ReplaceOrInsert(sequenceItem(v))
}

func (s *orderedSet) Delete(v uint32) {
	s.tree.Delete(sequenceItem(v))
}

func (s *orderedSet) Has(v uint32) bool {
	return s.tree.Has(sequenceItem(v))
}

// Min reports the smallest member and whether the set is non-empty.
func (s *orderedSet) Min() (uint32, bool) {
	item := s.tree.Min()
	if item == nil {
		return 0, false
	}
	return uint32(item.(sequenceItem)), true
}

// Max reports the largest member and whether the set is non-empty.
func (s *orderedSet) Max() (uint32, bool) {
	item := s.tree.Max()
	if item == nil {
		return 0, false
	}
	return uint32(item.(sequenceItem)), true
}

// Ascend visits every member in increasing order, stopping early if fn
// returns false.
func (s *orderedSet) Ascend(fn func(v uint32) bool) {
	s.tree.Ascend(func(item btree.Item) bool {
		return fn(uint32(item.(sequenceItem)))
	})
}

// DeleteLessThan removes and returns every member strictly less than
// pivot, in increasing order.
func (s *orderedSet) DeleteLessThan(pivot uint32) []uint32 {
	var victims []uint32
	s.tree.AscendLessThan(sequenceItem(pivot), func(item btree.Item) bool {
		victims = append(victims, uint32(item.(sequenceItem)))
		return true
	})
	for _, v := range victims {
		s.tree.Delete(sequenceItem(v))
	}
	return victims
}
