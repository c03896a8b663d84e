package daedalusos

// Mutex provides priority-inheritance mutual exclusion (spec.md §4.6). It
// has no recursion support and no priority ceiling — only inheritance
// (spec.md §1 Non-goals). Zero value is not ready to use; call NewMutex.
type Mutex struct {
	holder       int // noTask if free
	origPriority uint8
	blocked      taskList
}

// NewMutex creates a free mutex.
func (k *Kernel) NewMutex() *Mutex {
	return &Mutex{holder: noTask, blocked: newTaskList()}
}

// Acquire attempts to take m, blocking up to timeoutTicks if it is held.
// If the holder's priority is lower than the caller's, the holder is
// boosted to the caller's priority for the duration (priority
// inheritance, spec.md §4.6a); the boost is only ever applied on first
// acquisition of origPriority, never overwritten by a later, smaller
// inheritance (I7: a holder's priority only ever increases while held).
func (k *Kernel) Acquire(m *Mutex, timeoutTicks int) Status {
	k.port.EnterCritical()
	defer k.port.ExitCritical()

	if m.holder != noTask {
		holder := &k.tasks[m.holder]
		running := &k.tasks[k.runningTask]

		if running.priority > holder.priority {
			// Only relink the holder's ready-list membership if it is
			// actually linked in one right now (TaskReady, not
			// TaskBlocked — e.g. asleep, or waiting on some other
			// primitive): relinking a blocked task into readyList would
			// make the scheduler treat it as runnable, violating I2.
			// If the holder is blocked, bumping priority here is still
			// correct and sufficient: setReady (tick timeout, a wake)
			// reads the now-boosted priority when it eventually relinks
			// the task itself. original_source/daedalus_os.c relinks
			// unconditionally here; this guard is a deliberate fix, not
			// a port of that behaviour.
			if holder.state != TaskBlocked {
				k.readyList[holder.priority].remove(k.tasks, m.holder)
			}
			holder.priority = running.priority
			if holder.state != TaskBlocked {
				k.readyList[holder.priority].insertHead(k.tasks, m.holder)
			}
			k.logf(LevelWarn, m.holder, "mutex", nil, "priority boosted to %d via inheritance from task %d", holder.priority, k.runningTask)
		}

		if k.taskWait(&m.blocked, timeoutTicks) == StatusTimeout {
			return StatusTimeout
		}
	}

	m.holder = k.runningTask
	m.origPriority = k.tasks[k.runningTask].priority
	return StatusSuccess
}

// Release restores the holder's original priority, frees the mutex, and
// wakes the highest-priority waiter, if any. spec.md §7 documents that a
// releaser which does not hold the mutex is undefined behaviour in the
// original source; this rewrite debug-asserts it instead (spec.md §9's
// resolved open question), via assertf which always panics rather than
// being gated on the daedalusdebug tag, since letting a non-holder
// "release" a mutex would silently corrupt holder/priority bookkeeping.
func (k *Kernel) Release(m *Mutex) {
	k.port.EnterCritical()
	defer k.port.ExitCritical()

	k.assertf(m.holder == k.runningTask, "task %d released mutex not held by it (held by %d)", k.runningTask, m.holder)

	holder := &k.tasks[m.holder]
	if holder.priority != m.origPriority {
		// Undo the inheritance boost, relinking into the ready list at
		// the restored priority so I2 ("state==READY iff linked at
		// task.priority") keeps holding. original_source/daedalus_os.c's
		// release does not do this relink (only Acquire's inheritance
		// branch does); this rewrite fixes that asymmetry.
		k.readyList[holder.priority].remove(k.tasks, m.holder)
		holder.priority = m.origPriority
		k.readyList[holder.priority].insertHead(k.tasks, m.holder)
	}
	m.holder = noTask

	if !m.blocked.empty() {
		k.wakeHighestPriority(&m.blocked)
	}
}
