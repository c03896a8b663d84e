package daedalusos

// taskWait implements spec.md §4.5's task_wait. Callers must already hold
// the port's critical section. Callers do not link the running task onto
// blocked themselves: taskWait performs that insert (in the C source the
// caller places the task on the blocked list before calling the wait
// helper; see mutex.go/semaphore.go/queue.go/event.go for callers here).
//
// timeoutTicks == 0 means "don't block": return StatusTimeout immediately
// (a non-blocking poll).
func (k *Kernel) taskWait(blocked *taskList, timeoutTicks int) Status {
	if timeoutTicks == 0 {
		return StatusTimeout
	}

	running := k.runningTask
	t := &k.tasks[running]

	t.waiting = true
	k.readyList[t.priority].remove(k.tasks, running)
	blocked.insertHead(k.tasks, running)
	t.blockedList = blocked
	t.timeout = timeoutTicks
	t.state = TaskBlocked

	k.schedule()

	// Control returns here once this task is running again. ExitCritical
	// must not run in between: on hostport, schedule() parks this very
	// goroutine until it's rescheduled, and EnterCritical/ExitCritical
	// bracket the whole call from the caller's side.
	waiting := t.waiting
	t.waiting = false

	if waiting {
		return StatusTimeout
	}
	return StatusSuccess
}

// taskWake implements spec.md §4.5's task_wake: the releaser has already
// chosen which task to wake. It clears waiting/timeout, unlinks from
// list, and readies the task, but does not itself invoke the scheduler —
// callers wake at most a batch of tasks and then schedule once.
func (k *Kernel) taskWake(id int, list *taskList) {
	t := &k.tasks[id]
	t.waiting = false
	t.timeout = 0
	t.blockedList = nil
	list.remove(k.tasks, id)
	k.setReady(id)
}

// wakeHighestPriority wakes the highest-priority waiter on list, if any,
// and invokes the scheduler. Shared by mutex release, semaphore give,
// queue insert/retrieve.
func (k *Kernel) wakeHighestPriority(list *taskList) {
	id := list.highestPriority(k.tasks)
	if id == noTask {
		return
	}
	k.taskWake(id, list)
	k.schedule()
}

// removeFromBlockedList unlinks task id from whichever primitive blocked
// list it is currently on, if any. Used by the tick handler on a
// timeout-initiated wake (spec.md §9's resolved open question).
func (k *Kernel) removeFromBlockedList(id int) {
	t := &k.tasks[id]
	if t.blockedList == nil {
		return
	}
	t.blockedList.remove(k.tasks, id)
	t.blockedList = nil
}
