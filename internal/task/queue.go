package task

// queue is the pending-task collection, kept in priority-descending order.
// Ties preserve insertion order. Not safe for concurrent use; the scheduler
// serializes access under its own mutex.
type queue struct {
	tasks []*Task
}

// insert places t after every pending task of equal or higher priority, so
// drains are stable FIFO within a tier.
func (q *queue) insert(t *Task) {
	i := len(q.tasks)
	for i > 0 && q.tasks[i-1].Priority < t.Priority {
		i--
	}
	q.tasks = append(q.tasks, nil)
	copy(q.tasks[i+1:], q.tasks[i:])
	q.tasks[i] = t
}

// pop removes and returns the highest-priority pending task, or nil when
// the queue is empty.
func (q *queue) pop() *Task {
	if len(q.tasks) == 0 {
		return nil
	}
	t := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return t
}

// find returns the pending task with the given dedup key, or nil.
func (q *queue) find(key string) *Task {
	for _, t := range q.tasks {
		if t.dedupKey() == key {
			return t
		}
	}
	return nil
}

// drain removes and returns every pending task.
func (q *queue) drain() []*Task {
	tasks := q.tasks
	q.tasks = nil
	return tasks
}

func (q *queue) len() int { return len(q.tasks) }

// snapshot copies the pending order for observers.
func (q *queue) snapshot() []*Task {
	out := make([]*Task, len(q.tasks))
	copy(out, q.tasks)
	return out
}
