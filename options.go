package daedalusos

// config holds the compile-time-equivalent configuration for a Kernel.
// On a real microcontroller these would be #define constants (see
// original_source/daedalus_os.h); here they're resolved once at New and
// never change afterward.
type config struct {
	maxNumTasks    int
	maxPriority    uint8
	clockHz        int
	idleStackWords int
	idleEntry      TaskEntry
	logger         Logger
}

// Option configures a Kernel at construction time.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithMaxTasks sets MAX_NUM_TASKS (default 32, spec.md's original default).
// n must be in [1,255]; New panics otherwise.
func WithMaxTasks(n int) Option {
	return optionFunc(func(c *config) { c.maxNumTasks = n })
}

// WithMaxPriority sets MAX_PRIORITY_LEVEL (default 31). Priority 0 is
// always reserved for the idle task.
func WithMaxPriority(n uint8) Option {
	return optionFunc(func(c *config) { c.maxPriority = n })
}

// WithClockHz sets OS_CLK_HZ, the rate at which Tick is expected to be
// invoked (default 100).
func WithClockHz(hz int) Option {
	return optionFunc(func(c *config) { c.clockHz = hz })
}

// WithIdleStackSize sets the word count of the idle task's stack, passed
// through to Port.StackInit (default 32, matching
// original_source/daedalus_os.c's IDLE_TASK_STACK_SZ).
func WithIdleStackSize(words int) Option {
	return optionFunc(func(c *config) { c.idleStackWords = words })
}

// WithLogger overrides the Kernel's structured logger. The default is
// NewNoopLogger(), matching the teacher's package-level default of
// falling back to a no-op when nothing has been configured.
func WithLogger(logger Logger) Option {
	return optionFunc(func(c *config) { c.logger = logger })
}

// WithIdleEntry overrides the idle task's body (default: an infinite loop
// that only increments a counter). A Port whose host simulation needs tasks
// to cooperatively checkpoint — hostport, for instance — supplies its own
// idle entry here, since the idle task otherwise never calls back into the
// kernel and so never gives a goroutine-based Port a chance to park it.
func WithIdleEntry(entry TaskEntry) Option {
	return optionFunc(func(c *config) { c.idleEntry = entry })
}

func resolveConfig(opts []Option) config {
	c := config{
		maxNumTasks:    32,
		maxPriority:    31,
		clockHz:        100,
		idleStackWords: 32,
		idleEntry:      nil, // resolved to the Kernel's own idleTaskEntry by New
		logger:         NewNoopLogger(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(&c)
	}
	return c
}
