package valueengine

// listNode is a node in the doubly-linked sequence backing ListVal. A
// hand-rolled node type is used (rather than container/list) because List
// operations are indexed by position, which container/list's opaque
// *Element doesn't support without an O(n) walk anyway — walking ourselves
// lets Index/Range short-circuit from whichever end is closer.
type listNode struct {
	val        []byte
	prev, next *listNode
}

// ListVal is the List variant: a doubly-linked sequence of byte strings.
type ListVal struct {
	head, tail *listNode
	length     int
}

// NewListVal returns an empty list.
func NewListVal() *ListVal { return &ListVal{} }

// Len returns the number of elements.
func (l *ListVal) Len() int { return l.length }

// PushLeft inserts values at the head, in the given order (so the last
// element of values ends up frontmost, matching LPUSH's semantics of
// repeated single-element pushes).
func (l *ListVal) PushLeft(values ...[]byte) int {
	for _, v := range values {
		n := &listNode{val: v, next: l.head}
		if l.head != nil {
			l.head.prev = n
		}
		l.head = n
		if l.tail == nil {
			l.tail = n
		}
		l.length++
	}
	return l.length
}

// PushRight inserts values at the tail, in the given order.
func (l *ListVal) PushRight(values ...[]byte) int {
	for _, v := range values {
		n := &listNode{val: v, prev: l.tail}
		if l.tail != nil {
			l.tail.next = n
		}
		l.tail = n
		if l.head == nil {
			l.head = n
		}
		l.length++
	}
	return l.length
}

// PopLeft removes and returns the head element.
func (l *ListVal) PopLeft() ([]byte, bool) {
	if l.head == nil {
		return nil, false
	}
	n := l.head
	l.head = n.next
	if l.head != nil {
		l.head.prev = nil
	} else {
		l.tail = nil
	}
	l.length--
	return n.val, true
}

// PopRight removes and returns the tail element.
func (l *ListVal) PopRight() ([]byte, bool) {
	if l.tail == nil {
		return nil, false
	}
	n := l.tail
	l.tail = n.prev
	if l.tail != nil {
		l.tail.next = nil
	} else {
		l.head = nil
	}
	l.length--
	return n.val, true
}

// nodeAt walks from whichever end is closer to the normalized (non-negative)
// index. Returns nil if out of range.
func (l *ListVal) nodeAt(idx int) *listNode {
	if idx < 0 || idx >= l.length {
		return nil
	}
	if idx <= l.length/2 {
		n := l.head
		for i := 0; i < idx; i++ {
			n = n.next
		}
		return n
	}
	n := l.tail
	for i := l.length - 1; i > idx; i-- {
		n = n.prev
	}
	return n
}

// normListIndex applies Python-style negative indexing (negative counts from
// the tail).
func normListIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	return i
}

// Index returns the element at a signed position.
func (l *ListVal) Index(idx int) ([]byte, bool) {
	n := l.nodeAt(normListIndex(idx, l.length))
	if n == nil {
		return nil, false
	}
	return n.val, true
}

// Set overwrites the element at a signed position.
func (l *ListVal) Set(idx int, v []byte) error {
	n := l.nodeAt(normListIndex(idx, l.length))
	if n == nil {
		return ErrOutOfRange
	}
	n.val = v
	return nil
}

// Range returns a Python-style-bounded slice [start,stop] (inclusive stop,
// negative indices from the tail).
func (l *ListVal) Range(start, stop int) [][]byte {
	n := l.length
	start = normListIndex(start, n)
	stop = normListIndex(stop, n)
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop || start >= n {
		return [][]byte{}
	}
	out := make([][]byte, 0, stop-start+1)
	node := l.nodeAt(start)
	for i := start; i <= stop && node != nil; i++ {
		out = append(out, node.val)
		node = node.next
	}
	return out
}

// ListNotFound distinguishes "inserted" from "pivot not found" without an
// error, since LINSERT's "not found" reply is a normal -1, not a failure.
const ListNotFound = -1

// InsertBefore/InsertAfter scan from the head for pivot (byte-exact match)
// and insert value adjacent to it, returning the new length or ListNotFound.
func (l *ListVal) InsertBefore(pivot, value []byte) int {
	return l.insert(pivot, value, true)
}

func (l *ListVal) InsertAfter(pivot, value []byte) int {
	return l.insert(pivot, value, false)
}

func (l *ListVal) insert(pivot, value []byte, before bool) int {
	for n := l.head; n != nil; n = n.next {
		if string(n.val) != string(pivot) {
			continue
		}
		nn := &listNode{val: value}
		if before {
			nn.prev = n.prev
			nn.next = n
			if n.prev != nil {
				n.prev.next = nn
			} else {
				l.head = nn
			}
			n.prev = nn
		} else {
			nn.next = n.next
			nn.prev = n
			if n.next != nil {
				n.next.prev = nn
			} else {
				l.tail = nn
			}
			n.next = nn
		}
		l.length++
		return l.length
	}
	return ListNotFound
}

// Rem removes up to count occurrences of value. fromTail reverses the scan
// direction; count == 0 removes all occurrences. Returns the number removed.
func (l *ListVal) Rem(fromTail bool, count int, value []byte) int {
	removed := 0
	if fromTail {
		for n := l.tail; n != nil && (count == 0 || removed < count); {
			prev := n.prev
			if string(n.val) == string(value) {
				l.unlink(n)
				removed++
			}
			n = prev
		}
		return removed
	}
	for n := l.head; n != nil && (count == 0 || removed < count); {
		next := n.next
		if string(n.val) == string(value) {
			l.unlink(n)
			removed++
		}
		n = next
	}
	return removed
}

func (l *ListVal) unlink(n *listNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	l.length--
}

// Trim keeps only the closed range [start,stop], emptying the list if the
// range is empty.
func (l *ListVal) Trim(start, stop int) {
	kept := l.Range(start, stop)
	l.head, l.tail, l.length = nil, nil, 0
	l.PushRight(kept...)
}
