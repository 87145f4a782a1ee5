package cache

// node is the access-order list element (spec.md §4.3): a doubly linked
// list in most-recent-first order, the cache's single source of truth
// for recency. Each node also threads through exactly one of two
// strength sub-lists (strong or weak), which exist purely so the
// default policy (and any other) can find the oldest-strong/
// newest-weak/oldest-weak cell in O(1) without scanning: spec.md §4.2
// requires every policy callback to be O(1) amortized.
type node[K comparable, V any] struct {
	prev, next         *node[K, V]
	tierPrev, tierNext *node[K, V]
	// inStrongTier records which sub-list n currently threads through.
	// This must NOT be read off c.strength: callers flip a cell's
	// strength before asking the list to relink it (see cell.weaken /
	// cell.strengthen / cell.overwrite), so the cell's own strength
	// field is already the *new* value by the time strengthenTier/
	// weakenTier run and can't be used to tell which sub-list to unlink
	// from.
	inStrongTier bool
	c            *cell[K, V]
}

// list owns the access-order list and the two strength sub-lists. It
// has no locking of its own: spec.md §5 makes the whole cache
// single-threaded and cooperative.
type list[K comparable, V any] struct {
	head, tail             *node[K, V]
	strongHead, strongTail *node[K, V]
	weakHead, weakTail     *node[K, V]
	strongN, weakN         int
}

// insertNew links a brand-new node at the head of both the main list
// and the strong sub-list (every new cell starts strong, spec.md §4.4).
func (l *list[K, V]) insertNew(n *node[K, V]) {
	l.linkMainHead(n)
	l.linkTierHead(n, true)
}

// moveToHead relinks n at the head of the main list and at the head of
// the strength sub-list it already belongs to, so that sub-list's tail
// stays its least recently touched member.
func (l *list[K, V]) moveToHead(n *node[K, V]) {
	if l.head != n {
		l.unlinkMain(n)
		l.linkMainHead(n)
	}
	inStrong := n.inStrongTier
	l.unlinkTier(n, inStrong)
	l.linkTierHead(n, inStrong)
}

// strengthenTier moves n from the weak sub-list to the head of the
// strong sub-list. No-op if n is already in the strong sub-list. Callers
// are expected to have already flipped the cell's own strength by the
// time this runs, so the decision of which sub-list n is coming from is
// based on n.inStrongTier, not on the cell.
func (l *list[K, V]) strengthenTier(n *node[K, V]) {
	if n.inStrongTier {
		return
	}
	l.unlinkTier(n, false)
	l.linkTierHead(n, true)
}

// weakenTier moves n from the strong sub-list to the head of the weak
// sub-list. No-op if n is already in the weak sub-list.
func (l *list[K, V]) weakenTier(n *node[K, V]) {
	if !n.inStrongTier {
		return
	}
	l.unlinkTier(n, true)
	l.linkTierHead(n, false)
}

// remove detaches n from the main list and from whichever strength
// sub-list it is in. Used on explicit removal, clear, and eviction.
func (l *list[K, V]) remove(n *node[K, V]) {
	wasStrong := n.inStrongTier
	l.unlinkMain(n)
	l.unlinkTier(n, wasStrong)
}

func (l *list[K, V]) head_() *node[K, V] { return l.head }
func (l *list[K, V]) tail_() *node[K, V] { return l.tail }

func (l *list[K, V]) oldestStrong() *node[K, V] { return l.strongTail }
func (l *list[K, V]) newestWeak() *node[K, V]   { return l.weakHead }
func (l *list[K, V]) oldestWeak() *node[K, V]   { return l.weakTail }

func (l *list[K, V]) strongCount() int { return l.strongN }
func (l *list[K, V]) weakCount() int   { return l.weakN }

// -------------------- main list primitives --------------------

func (l *list[K, V]) linkMainHead(n *node[K, V]) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
}

func (l *list[K, V]) unlinkMain(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if l.head == n {
		l.head = n.next
	}
	if l.tail == n {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

// -------------------- strength sub-list primitives --------------------

func (l *list[K, V]) linkTierHead(n *node[K, V], strongTier bool) {
	n.inStrongTier = strongTier
	if strongTier {
		n.tierPrev = nil
		n.tierNext = l.strongHead
		if l.strongHead != nil {
			l.strongHead.tierPrev = n
		}
		l.strongHead = n
		if l.strongTail == nil {
			l.strongTail = n
		}
		l.strongN++
	} else {
		n.tierPrev = nil
		n.tierNext = l.weakHead
		if l.weakHead != nil {
			l.weakHead.tierPrev = n
		}
		l.weakHead = n
		if l.weakTail == nil {
			l.weakTail = n
		}
		l.weakN++
	}
}

func (l *list[K, V]) unlinkTier(n *node[K, V], fromStrong bool) {
	if n.tierPrev != nil {
		n.tierPrev.tierNext = n.tierNext
	}
	if n.tierNext != nil {
		n.tierNext.tierPrev = n.tierPrev
	}
	if fromStrong {
		if l.strongHead == n {
			l.strongHead = n.tierNext
		}
		if l.strongTail == n {
			l.strongTail = n.tierPrev
		}
		l.strongN--
	} else {
		if l.weakHead == n {
			l.weakHead = n.tierNext
		}
		if l.weakTail == n {
			l.weakTail = n.tierPrev
		}
		l.weakN--
	}
	n.tierPrev, n.tierNext = nil, nil
}
