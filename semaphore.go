package daedalusos

// Semaphore is a counting semaphore (spec.md §4.7), capped at 255 by its
// count's width; there is no configurable maximum beyond that.
type Semaphore struct {
	count   uint8
	blocked taskList
}

// NewSemaphore creates a semaphore with the given initial count.
func (k *Kernel) NewSemaphore(initialCount uint8) *Semaphore {
	return &Semaphore{count: initialCount, blocked: newTaskList()}
}

// Take decrements the semaphore, blocking up to timeoutTicks if it is
// currently zero.
func (k *Kernel) Take(s *Semaphore, timeoutTicks int) Status {
	k.port.EnterCritical()
	defer k.port.ExitCritical()

	if s.count == 0 {
		if k.taskWait(&s.blocked, timeoutTicks) == StatusTimeout {
			return StatusTimeout
		}
	}
	s.count--
	return StatusSuccess
}

// Give increments the semaphore and wakes the highest-priority waiter, if
// any.
func (k *Kernel) Give(s *Semaphore) {
	k.port.EnterCritical()
	defer k.port.ExitCritical()

	s.count++
	k.wakeHighestPriority(&s.blocked)
}

// TakeISR is the ISR-safe, non-blocking variant of Take: it never waits,
// returning StatusFailed instead when the semaphore's count is zero
// (spec.md §6, §7).
func (k *Kernel) TakeISR(s *Semaphore) Status {
	k.port.EnterCritical()
	defer k.port.ExitCritical()

	if s.count == 0 {
		return StatusFailed
	}
	s.count--
	return StatusSuccess
}

// GiveISR is the ISR-safe variant of Give.
func (k *Kernel) GiveISR(s *Semaphore) {
	k.port.EnterCritical()
	defer k.port.ExitCritical()

	s.count++
	k.wakeHighestPriority(&s.blocked)
}
