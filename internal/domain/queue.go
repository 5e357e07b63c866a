package domain

const minQueueCap = 8

// TaskQueue is a double-ended queue of tasks backed by a ring buffer.
// The zero value is an empty queue ready to use.
type TaskQueue struct {
	buf  []Task
	head int
	n    int
}

// Len returns the number of queued tasks.
func (q *TaskQueue) Len() int { return q.n }

// PushBack appends t behind every queued task.
func (q *TaskQueue) PushBack(t Task) {
	q.grow()
	q.buf[(q.head+q.n)%len(q.buf)] = t
	q.n++
}

// PushFront places t ahead of every queued task.
func (q *TaskQueue) PushFront(t Task) {
	q.grow()
	q.head = (q.head - 1 + len(q.buf)) % len(q.buf)
	q.buf[q.head] = t
	q.n++
}

// PeekFront returns the front task without removing it.
func (q *TaskQueue) PeekFront() (Task, bool) {
	if q.n == 0 {
		return Task{}, false
	}
	return q.buf[q.head], true
}

// PopFront removes and returns the front task.
func (q *TaskQueue) PopFront() (Task, bool) {
	if q.n == 0 {
		return Task{}, false
	}
	t := q.buf[q.head]
	q.buf[q.head] = Task{}
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	if q.n == 0 {
		q.head = 0
	}
	return t, true
}

// Slice returns a copy of the queue, front to back.
func (q *TaskQueue) Slice() []Task {
	out := make([]Task, q.n)
	for i := 0; i < q.n; i++ {
		out[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	return out
}

func (q *TaskQueue) grow() {
	if q.n < len(q.buf) {
		return
	}
	size := len(q.buf) * 2
	if size < minQueueCap {
		size = minQueueCap
	}
	buf := make([]Task, size)
	for i := 0; i < q.n; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
