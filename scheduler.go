package daedalusos

// schedule implements spec.md §4.3's algorithm. Callers must already hold
// the port's critical section. It never returns without having either
// requested a context switch or determined none is needed.
func (k *Kernel) schedule() {
	p := k.highestReadyPriority()
	candidate := k.nextReadyTask(p)

	if candidate == noTask {
		return
	}

	prevID := k.runningTask
	k.prevTask = prevID
	k.runningTask = candidate

	var prevTCB, nextTCB *TCB
	if prevID != noTask {
		prevTCB = &k.tasks[prevID]
	}
	nextTCB = &k.tasks[candidate]

	k.logf(LevelDebug, candidate, "schedule", nil, "switching from %d to %d at priority %d", prevID, candidate, p)
	k.port.RequestContextSwitch(prevTCB, nextTCB)
}

// highestReadyPriority scans the ready lists from highestPriority
// downward for the first nonempty slot (spec.md §4.3 step 1). I6
// guarantees priority 0 (idle) is always populated, so this always finds
// something once at least the idle task has been created.
func (k *Kernel) highestReadyPriority() uint8 {
	for p := int(k.highestPriority); p >= 0; p-- {
		if !k.readyList[p].empty() {
			return uint8(p)
		}
	}
	k.assertf(false, "no ready task found at any priority")
	return 0
}

// nextReadyTask computes the scheduling candidate at priority p (spec.md
// §4.3 step 2), or noTask if no switch is needed.
func (k *Kernel) nextReadyTask(p uint8) int {
	running := k.runningTask

	if running == noTask {
		return k.readyList[p].head
	}

	runningTCB := &k.tasks[running]
	if runningTCB.state != TaskBlocked && runningTCB.priority == p && runningTCB.next != noTask {
		return runningTCB.next
	}

	if running != k.readyList[p].head {
		return k.readyList[p].head
	}

	return noTask
}

// Tick is the kernel's tick handler (spec.md §4.4), invoked by the Port's
// periodic driver at ClockHz. For every task with a nonzero timeout,
// decrement it; on reaching zero, ready the task. Then invoke the
// scheduler once.
//
// This is an O(taskCount) scan per tick, which spec.md §4.4 documents as
// a known, deliberate simplification rather than a delta list.
func (k *Kernel) Tick() {
	k.port.EnterCritical()
	defer k.port.ExitCritical()

	for i := range k.tasks {
		t := &k.tasks[i]
		if t.timeout <= 0 {
			continue
		}
		t.timeout--
		if t.timeout == 0 && t.state == TaskBlocked {
			// Timeout-initiated wake: unlike at least one revision of
			// original_source/daedalus_os.c, this removes the task from
			// whatever primitive blocked list it's on (I1/I3), not just
			// the ready-list bookkeeping. waiting stays true so taskWait
			// can tell this apart from a signalled wake.
			k.removeFromBlockedList(i)
			k.logf(LevelWarn, i, "tick", nil, "task timed out")
			k.setReady(i)
		}
	}

	k.schedule()
}
