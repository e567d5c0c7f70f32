package manager

import "github.com/xess-engine/xsc/internal/cache"

// lruNode is a node in the artifact recency list. The node carries its
// key so eviction can delete from the artifact map in O(1).
type lruNode struct {
	key  cache.Key
	prev *lruNode
	next *lruNode
}

// lruList orders cached artifacts by recency: head is the most recently
// accessed, tail the least. It is not thread-safe; the manager's cache
// lock covers it.
type lruList struct {
	head *lruNode
	tail *lruNode
	len  int
}

func (l *lruList) Len() int { return l.len }

// PushFront inserts a new key at the front and returns its node.
func (l *lruList) PushFront(key cache.Key) *lruNode {
	node := &lruNode{key: key}
	if l.head == nil {
		l.head = node
		l.tail = node
	} else {
		node.next = l.head
		l.head.prev = node
		l.head = node
	}
	l.len++

	return node
}

// MoveToFront marks a node as most recently accessed.
func (l *lruList) MoveToFront(node *lruNode) {
	if node == nil || node == l.head {
		return
	}

	l.unlink(node)

	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

// RemoveOldest removes and returns the least recently accessed key.
func (l *lruList) RemoveOldest() (cache.Key, bool) {
	if l.tail == nil {
		return 0, false
	}

	node := l.tail
	l.unlink(node)

	return node.key, true
}

// Clear empties the list.
func (l *lruList) Clear() {
	l.head = nil
	l.tail = nil
	l.len = 0
}

func (l *lruList) unlink(node *lruNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}

	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}

	node.prev = nil
	node.next = nil
	l.len--
}
