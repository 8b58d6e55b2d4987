package evaluator

// Queue is a FIFO of values owned by one transform stage.
type Queue struct {
	head, tail *queueNode
	length     int
}

type queueNode struct {
	value Object
	next  *queueNode
}

func (q *Queue) Enqueue(value Object) {
	n := &queueNode{value: value}
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.length++
}

// Dequeue returns false when the queue is empty.
func (q *Queue) Dequeue() (Object, bool) {
	if q.head == nil {
		return nil, false
	}
	n := q.head
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.length--
	return n.value, true
}

func (q *Queue) Len() int {
	return q.length
}
