package daedalusos

// Kernel holds all scheduler-visible global state from spec.md §3: the
// TCB table, the per-priority ready rings, and the running/outgoing task
// pointers. Unlike original_source/daedalus_os.c's file-scope statics,
// this state is owned by a constructed value with a well-defined
// lifecycle (New, then Start), per SPEC_FULL.md's "Global kernel state"
// representation decision — there is no package-level mutable state.
//
// Kernel is not itself safe for concurrent use: all exclusion is the
// Port's responsibility (EnterCritical/ExitCritical), exactly as it
// would be on a real single-core target with no concurrent kernel entry
// either.
type Kernel struct {
	cfg  config
	port Port

	tasks     []TCB
	taskCount int

	runningTask int // index into tasks, or noTask before Start
	prevTask    int // outgoing task during a switch, consumed by the port

	readyList []taskList // one ring per priority level, index 0..maxPriority

	highestPriority uint8 // max priority ever assigned to a created task

	idleTaskID int
	idleTicks  uint64 // default idle entry's tick counter; see idleTaskEntry
}

// New constructs a Kernel and creates its idle task (spec.md §4.10,
// folding spec.md's separate os_init into construction — see
// SPEC_FULL.md §6). port must not be nil.
func New(port Port, opts ...Option) *Kernel {
	if port == nil {
		panic("daedalusos: New requires a non-nil Port")
	}
	cfg := resolveConfig(opts)
	if cfg.maxNumTasks < 1 || cfg.maxNumTasks > 255 {
		panic("daedalusos: MaxNumTasks must be in [1,255]")
	}
	if cfg.clockHz < 1 {
		panic("daedalusos: ClockHz must be positive")
	}

	k := &Kernel{
		cfg:         cfg,
		port:        port,
		tasks:       make([]TCB, 0, cfg.maxNumTasks),
		runningTask: noTask,
		prevTask:    noTask,
		readyList:   make([]taskList, int(cfg.maxPriority)+1),
	}
	for i := range k.readyList {
		k.readyList[i] = newTaskList()
	}

	idleEntry := cfg.idleEntry
	if idleEntry == nil {
		idleEntry = k.idleTaskEntry
	}
	k.idleTaskID = k.TaskCreate(idleEntry, nil, make([]uint32, cfg.idleStackWords), cfg.idleStackWords, 0)
	k.logf(LevelInfo, -1, "init", nil, "kernel initialized: maxTasks=%d maxPriority=%d clockHz=%d", cfg.maxNumTasks, cfg.maxPriority, cfg.clockHz)
	return k
}

// idleTaskEntry is the default idle task body (spec.md §4.10): an
// infinite loop incrementing this kernel's own tick counter, guaranteeing
// I6 ("priority 0 always has at least one READY task"). arg is unused.
// A Port whose simulation needs the idle task to cooperatively
// checkpoint overrides this entirely via WithIdleEntry.
func (k *Kernel) idleTaskEntry(any) {
	for {
		k.idleTicks++
	}
}

// Start programs the tick timer and requests the switch into the
// highest-priority ready task, then returns to its caller: the first
// switch has no outgoing task, so the caller's goroutine is not parked.
// A caller that must stay alive while tasks run has to block on its own.
func (k *Kernel) Start() {
	k.port.EnterCritical()
	k.port.TickStart(k.cfg.clockHz, k.Tick)
	k.schedule()
	k.port.ExitCritical()
}

// TaskQuery returns the TCB for id, or nil if id is out of range. The
// returned pointer aliases live kernel state; callers must not mutate it
// (spec.md §6: os_task_query returns a const pointer).
func (k *Kernel) TaskQuery(id int) *TCB {
	if id < 0 || id >= len(k.tasks) {
		return nil
	}
	return &k.tasks[id]
}

// RunningTask returns the currently running task's id, or noTask before
// Start's first switch.
func (k *Kernel) RunningTask() int {
	return k.runningTask
}

// IdleTaskID returns the id of the idle task created by New. It is always
// 0, since idle is the first task New creates, but a Port should call this
// rather than assume that.
func (k *Kernel) IdleTaskID() int {
	return k.idleTaskID
}
