package daedalusos

// TaskCreate registers a new task and returns its id. All tasks are
// created before Start; there is no task deletion or creation afterward
// (spec.md §1 Non-goals). priority must be in [0, MaxPriority]; priority
// 0 is conventionally reserved for the idle task created by New, though
// nothing stops additional priority-0 tasks from being created.
func (k *Kernel) TaskCreate(entry TaskEntry, arg any, stackBase []uint32, stackSize int, priority uint8) int {
	k.port.EnterCritical()
	defer k.port.ExitCritical()

	k.assertf(k.taskCount < k.cfg.maxNumTasks, "task count %d exceeds MaxNumTasks %d", k.taskCount, k.cfg.maxNumTasks)
	k.assertf(int(priority) < len(k.readyList), "priority %d exceeds MaxPriority %d", priority, k.cfg.maxPriority)

	id := k.taskCount
	sp := k.port.StackInit(entry, arg, stackBase, stackSize)

	k.tasks = append(k.tasks, TCB{
		entry:        entry,
		arg:          arg,
		stackPointer: sp,
		priority:     priority,
		state:        TaskReady,
		next:         noTask,
		prev:         noTask,
		id:           id,
	})
	k.taskCount++

	k.readyList[priority].insertHead(k.tasks, id)

	if priority > k.highestPriority {
		k.highestPriority = priority
	}

	k.logf(LevelInfo, id, "task", nil, "task created at priority %d", priority)
	return id
}

// setReady transitions id into TaskReady and links it into its priority's
// ready ring (spec.md §4.2: "On entering READY: insert at head").
func (k *Kernel) setReady(id int) {
	t := &k.tasks[id]
	t.state = TaskReady
	k.readyList[t.priority].insertHead(k.tasks, id)
}

// TaskSleep blocks the running task for the given number of ticks. ticks
// == 0 is a legal (if useless) call: the task is blocked with no timeout
// armed, matching the C source's unconditional
// "task_set_state(BLOCKED)" + "timeout = ticks" — the tick handler simply
// never decrements a zero timeout, so the task stays parked until
// something else wakes it. For a "sleep", the only wake source is the
// timeout itself, so callers should pass ticks > 0.
func (k *Kernel) TaskSleep(ticks int) {
	k.port.EnterCritical()

	running := &k.tasks[k.runningTask]
	if !running.waiting {
		k.readyList[running.priority].remove(k.tasks, k.runningTask)
	}
	running.timeout = ticks
	running.state = TaskBlocked

	k.schedule()
	k.port.ExitCritical()
}

// TaskYield immediately invokes the scheduler. In a preemptive,
// fixed-priority kernel the highest-priority task is already running, so
// yield's only effect is advancing the round-robin ring among
// equal-priority tasks (spec.md §4.3).
func (k *Kernel) TaskYield() {
	k.port.EnterCritical()
	k.schedule()
	k.port.ExitCritical()
}
