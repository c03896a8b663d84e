package daedalusos

// taskList is an intrusive doubly-linked ring of TCBs, threaded through
// the shared task table by index rather than pointer (see
// SPEC_FULL.md's "Representation decisions"). It is the single place
// that touches TCB.next/TCB.prev, so I1 ("a task appears in at most one
// list") is enforced in one spot rather than at every call site (per
// spec.md §9's "list manager" suggestion).
//
// A zero-value taskList is an empty list (head == 0, but that collides
// with a valid index 0, so taskList must always be initialized via
// newTaskList or have its head explicitly set to noTask).
type taskList struct {
	head int
}

func newTaskList() taskList {
	return taskList{head: noTask}
}

func (l *taskList) empty() bool {
	return l.head == noTask
}

// insertHead links id in at the head of the list. id must not currently
// be a member of any list.
func (l *taskList) insertHead(tasks []TCB, id int) {
	assertNotListed(tasks, id)
	t := &tasks[id]
	t.prev = noTask
	t.next = l.head
	if l.head != noTask {
		tasks[l.head].prev = id
	}
	l.head = id
}

// remove unlinks id from the list. It is a no-op if id is already the
// sentinel noTask, so callers don't need to guard every call (this
// matters for the tick handler's timeout path, which must be safe to run
// whether or not the timed-out task is still linked into a primitive's
// blocked list — see SPEC_FULL.md's resolution of the
// "timeout vs signal" open question).
func (l *taskList) remove(tasks []TCB, id int) {
	if id == noTask {
		return
	}
	t := &tasks[id]
	if t.next != noTask {
		tasks[t.next].prev = t.prev
	}
	if t.prev != noTask {
		tasks[t.prev].next = t.next
	} else if l.head == id {
		l.head = t.next
	}
	t.next = noTask
	t.prev = noTask
}

// highestPriority returns the id of the highest-priority task on the
// list, or noTask if empty. This is an O(n) scan (spec.md §4.1: "this is
// acceptable because blocked lists are short relative to task count and
// run only at release time").
//
// Ties break FIFO by arrival (spec.md §8 S4), not by list position: head
// is the most recently inserted (insertHead), so a plain first-encountered
// scan would wake the newest waiter on a tie, not the oldest. Using >=
// instead of > lets a later-encountered (i.e. older, closer to tail)
// equal-priority task keep displacing best, so the scan converges on the
// earliest blocker among the tied set. original_source/daedalus_os.c uses
// strict > here, which ties to the newest waiter; this is a deliberate
// fix, not a port of that behaviour.
func (l *taskList) highestPriority(tasks []TCB) int {
	if l.head == noTask {
		return noTask
	}
	best := l.head
	for id := tasks[l.head].next; id != noTask; id = tasks[id].next {
		if tasks[id].priority >= tasks[best].priority {
			best = id
		}
	}
	return best
}

// forEach walks the list from head to tail, calling fn with each id.
// fn may remove the current id from this same list (it will not disturb
// the walk, since next is captured before fn runs) but must not touch
// any other list's linkage for id.
func (l *taskList) forEach(tasks []TCB, fn func(id int)) {
	id := l.head
	for id != noTask {
		next := tasks[id].next
		fn(id)
		id = next
	}
}
