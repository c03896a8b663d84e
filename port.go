package daedalusos

// Port is the set of primitives the kernel requires from the layer below
// it (spec.md §1, §6: "the core requires a small, abstract port
// interface"). Everything on the other side of this interface — saving
// and restoring register state, masking interrupts, programming a tick
// timer, building an initial stack frame — is target-specific and out of
// scope for this repo's core; hostport provides the one concrete
// implementation used here, a goroutine/channel simulation for testing
// the scheduler logic without real hardware (spec.md §9).
type Port interface {
	// EnterCritical and ExitCritical bracket every kernel operation that
	// mutates scheduler-visible state. On a real target these mask
	// interrupts; they must be safe to call from both task context and
	// an ISR prologue.
	EnterCritical()
	ExitCritical()

	// RequestContextSwitch hands control from prev to next. prev is nil
	// only for the very first switch performed by Start. The port is
	// responsible for saving prev's context (updating prev.stackPointer)
	// and restoring next's.
	RequestContextSwitch(prev, next *TCB)

	// StackInit constructs whatever initial execution context is needed
	// so that the first RequestContextSwitch into this task resumes at
	// entry(arg). The returned value is opaque to the kernel: it is
	// stored in TCB.stackPointer and only ever handed back to the Port.
	StackInit(entry TaskEntry, arg any, stackBase []uint32, stackSize int) any

	// TickStart configures a periodic driver that invokes tick at rateHz.
	// tick is the kernel's Tick method; the port decides how to pace
	// calling it (e.g. a time.Ticker in hostport).
	TickStart(rateHz int, tick func())
}
