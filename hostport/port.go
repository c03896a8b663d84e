// Package hostport is a daedalusos.Port implementation that simulates a
// single-core target on top of goroutines, for running and testing the
// kernel without real hardware (spec.md §9's acknowledged simplification).
//
// Go gives every task a real OS thread's worth of concurrency, which real
// hardware does not: on a Cortex-M, the CPU can only ever be fetching one
// task's instructions, so "preemption" is simply the CPU's program counter
// changing. A goroutine cannot be stopped mid-instruction from the outside,
// so hostport uses a cooperative checkpoint instead: every task parks on
// its own sync.Cond whenever the kernel decides it is no longer the
// running task, and only resumes once the kernel schedules it back in.
// Tasks that call into the kernel (TaskSleep, TaskYield, a blocking
// primitive) checkpoint for free, since that call is exactly where
// RequestContextSwitch parks them. The idle task never calls into the
// kernel on its own, so its entry (Port.IdleEntry, wired in via
// daedalusos.WithIdleEntry) checkpoints explicitly once per loop
// iteration.
package hostport

import (
	"fmt"
	"sync"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/kurtjd/daedalus-os"
)

// Port is the goroutine-based daedalusos.Port. The zero value is not ready
// to use; call New.
type Port struct {
	mu  sync.Mutex
	cfg portConfig

	runnable []bool
	cond     []*sync.Cond

	// inISR is true for the duration of a call to tick, bracketing the
	// one case where the physical caller of RequestContextSwitch is not
	// prev's own goroutine: the simulated timer interrupt. See
	// deliverTick.
	inISR bool

	idleID    int
	idleBound bool

	stopCh   chan struct{}
	tickerWG sync.WaitGroup

	overrun *catrate.Limiter
}

type portConfig struct {
	logger daedalusos.Logger
}

// Option configures a Port at construction time.
type Option interface {
	apply(*portConfig)
}

type optionFunc func(*portConfig)

func (f optionFunc) apply(c *portConfig) { f(c) }

// WithLogger gives the port somewhere to report tick overruns. Default is
// a no-op logger.
func WithLogger(logger daedalusos.Logger) Option {
	return optionFunc(func(c *portConfig) { c.logger = logger })
}

// New constructs a Port. Call BindIdle once the Kernel built on top of it
// exists, and before calling Kernel.Start.
func New(opts ...Option) *Port {
	cfg := portConfig{logger: daedalusos.NewNoopLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}

	p := &Port{
		cfg:    cfg,
		stopCh: make(chan struct{}),
		// Warn at most 5 times per second if ticks are arriving faster
		// than this port can deliver them — a symptom of task code that
		// never checkpoints, or a ClockHz too high for the host machine.
		overrun: catrate.NewLimiter(map[time.Duration]int{time.Second: 5}),
	}
	return p
}

// BindIdle records id as the idle task's id, used by IdleEntry to find its
// own runnable slot. It must be called after daedalusos.New and before
// Kernel.Start.
func (p *Port) BindIdle(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idleID = id
	p.idleBound = true
}

// Stop halts the tick driver goroutine and waits for it to exit. It does
// not stop any task goroutine: matching real hardware, there is no
// graceful task shutdown (spec.md §1 Non-goals).
func (p *Port) Stop() {
	close(p.stopCh)
	p.tickerWG.Wait()
}

// EnterCritical and ExitCritical implement daedalusos.Port by taking and
// releasing the port's single mutex, exactly as masking/unmasking
// interrupts would on a real target: nothing else touches scheduler state
// while it is held.
func (p *Port) EnterCritical() { p.mu.Lock() }
func (p *Port) ExitCritical()  { p.mu.Unlock() }

// StackInit ignores stackBase/stackSize (goroutines manage their own
// stacks) and instead allocates this task's runnable/cond slot and spawns
// its goroutine. The goroutine parks immediately: it does not run entry
// until the kernel schedules this task in for the first time.
func (p *Port) StackInit(entry daedalusos.TaskEntry, arg any, stackBase []uint32, stackSize int) any {
	p.mu.Lock()
	id := len(p.runnable)
	p.runnable = append(p.runnable, false)
	p.cond = append(p.cond, sync.NewCond(&p.mu))
	p.mu.Unlock()

	go p.runTask(id, entry, arg)
	return id
}

func (p *Port) runTask(id int, entry daedalusos.TaskEntry, arg any) {
	p.checkpoint(id)
	entry(arg)
}

// checkpoint parks the calling goroutine until task id is runnable. It is
// the host-simulation-only hook that real hardware does not need: the
// kernel never calls it directly, only runTask's initial park
// (IdleEntry's per-iteration park goes through checkpointIdle).
func (p *Port) checkpoint(id int) {
	p.mu.Lock()
	for !p.runnable[id] {
		p.cond[id].Wait()
	}
	p.mu.Unlock()
}

// RequestContextSwitch marks next runnable and wakes it. If this call was
// made on behalf of a task giving up the CPU of its own accord (sleep,
// yield, or blocking on a primitive) — true whenever it was not delivered
// from inside a simulated tick ISR — the calling goroutine IS prev's own
// goroutine, so it parks right here until scheduled back in, exactly
// mirroring a real PendSV handler suspending the outgoing task's
// instruction stream. When the switch was instead triggered by a tick
// (p.inISR), the calling goroutine is the simulated timer interrupt, not
// prev: it must return immediately, and prev's own goroutine discovers the
// preemption at its next checkpoint.
func (p *Port) RequestContextSwitch(prev, next *daedalusos.TCB) {
	nextID := next.ID()
	p.runnable[nextID] = true
	p.cond[nextID].Signal()

	if prev == nil {
		return
	}

	prevID := prev.ID()
	p.runnable[prevID] = false
	if p.inISR {
		return
	}

	for !p.runnable[prevID] {
		p.cond[prevID].Wait()
	}
}

// TickStart drives tick at rateHz using a time.Ticker, simulating a
// periodic hardware timer interrupt. Delivery runs on its own goroutine,
// concurrently with whichever task is actually executing — the one place
// in this port where two goroutines genuinely race for the CPU, matching
// a real interrupt preempting whatever the core was doing.
func (p *Port) TickStart(rateHz int, tick func()) {
	period := time.Second / time.Duration(rateHz)
	ticker := time.NewTicker(period)

	p.tickerWG.Add(1)
	go func() {
		defer p.tickerWG.Done()
		defer ticker.Stop()
		for {
			select {
			case <-p.stopCh:
				return
			case firedAt := <-ticker.C:
				p.deliverTick(tick, firedAt, period)
			}
		}
	}()
}

// deliverTick invokes tick with p.inISR set, so that any context switch it
// triggers does not block this goroutine, then reports (rate-limited) if
// the handler ran long enough to threaten the next tick's schedule.
func (p *Port) deliverTick(tick func(), firedAt time.Time, period time.Duration) {
	p.mu.Lock()
	p.inISR = true
	p.mu.Unlock()

	tick()

	p.mu.Lock()
	p.inISR = false
	p.mu.Unlock()

	if elapsed := time.Since(firedAt); elapsed > period && p.cfg.logger.IsEnabled(daedalusos.LevelWarn) {
		if _, ok := p.overrun.Allow("tick-overrun"); ok {
			p.cfg.logger.Log(daedalusos.LogEntry{
				Level:     daedalusos.LevelWarn,
				Category:  "hostport",
				TaskID:    -1,
				Message:   fmt.Sprintf("tick handler took %s, longer than the %s period", elapsed, period),
				Timestamp: time.Now(),
			})
		}
	}
}

// IdleEntry is the idle task's body for this port: it spins like the
// kernel's own default idle entry, but also checkpoints once per
// iteration, since unlike every other task it never otherwise calls back
// into the kernel and so never gives this port a chance to park it.
// Install it with daedalusos.WithIdleEntry(port.IdleEntry), and call
// BindIdle with the kernel's idle task id before Start.
func (p *Port) IdleEntry(any) {
	for {
		p.checkpointIdle()
	}
}

func (p *Port) checkpointIdle() {
	p.mu.Lock()
	if !p.idleBound {
		p.mu.Unlock()
		panic("hostport: IdleEntry running before BindIdle was called")
	}
	id := p.idleID
	for !p.runnable[id] {
		p.cond[id].Wait()
	}
	p.mu.Unlock()
}

var _ daedalusos.Port = (*Port)(nil)
