package daedalusos

// noTask is the sentinel index used for "no task"/"end of list", playing
// the role of a NULL struct os_tcb* in original_source/daedalus_os.c.
const noTask = -1

// TaskState is a task's coarse scheduling state. RUNNING is not a member
// of this enum: it is implicit in a task being the one referenced by the
// Kernel's running task index (spec.md §3).
type TaskState uint8

const (
	// TaskReady indicates the task is eligible to run and is linked into
	// its priority's ready ring.
	TaskReady TaskState = iota
	// TaskBlocked indicates the task is waiting on a timeout, a
	// primitive's blocked list, or both.
	TaskBlocked
)

// String returns a human-readable representation of the state.
func (s TaskState) String() string {
	if s == TaskReady {
		return "READY"
	}
	return "BLOCKED"
}

// TaskEntry is a task's body. arg is the opaque value passed to
// TaskCreate, handed back verbatim.
type TaskEntry func(arg any)

// TCB is a task control block: one per task, for the lifetime of the
// program. There is no task deletion (spec.md §1 Non-goals).
//
// next/prev are indices into the Kernel's task table, not pointers: see
// SPEC_FULL.md's "Representation decisions". A TCB is a member of at most
// one list at a time (I1) — either a priority's ready ring or a
// primitive's blocked ring — enforced by taskList.
type TCB struct {
	entry         TaskEntry
	arg           any
	stackPointer  any // opaque handle defined by the Port implementation
	priority      uint8
	state         TaskState
	next, prev    int
	timeout       int // ticks remaining until timed wake; 0 = disarmed
	waiting       bool
	waitFlags     uint8
	id            int

	// blockedList is the primitive blocked list this task is currently
	// linked into, if any (nil when not waiting on a primitive). Recorded
	// by taskWait so the tick handler can remove a timed-out task from
	// whichever list it's on without every primitive having to check
	// (resolves spec.md §9's "timeout vs signal" open question: a
	// timeout-initiated wake now always clears list membership, not just
	// ready-list state).
	blockedList *taskList
}

// ID returns the task's identity, assigned at creation as its insertion
// index.
func (t *TCB) ID() int { return t.id }

// Priority returns the task's current effective priority (which may be
// temporarily boosted by mutex priority inheritance).
func (t *TCB) Priority() uint8 { return t.priority }

// State returns the task's coarse scheduling state.
func (t *TCB) State() TaskState { return t.state }
