package daedalusos

// Queue is a byte-addressed circular buffer of fixed-size items (spec.md
// §4.8, §3). Capacity in bytes is length*itemSize; head is the write
// offset, tail the read offset, both advancing by itemSize modulo
// capacity. Empty/full discrimination uses the full flag rather than a
// wasted slot, so capacity is exactly length items (spec.md §9).
type Queue struct {
	storage  []byte
	itemSize int
	capacity int // len(storage)
	head     int
	tail     int
	full     bool

	recvBlocked taskList
	sendBlocked taskList
}

// NewQueue creates a queue holding up to length items of itemSize bytes
// each.
func (k *Kernel) NewQueue(length, itemSize int) *Queue {
	k.assertf(length > 0 && itemSize > 0, "queue length and itemSize must be positive")
	return &Queue{
		storage:     make([]byte, length*itemSize),
		itemSize:    itemSize,
		capacity:    length * itemSize,
		recvBlocked: newTaskList(),
		sendBlocked: newTaskList(),
	}
}

// Insert copies item (which must be itemSize bytes) into the queue,
// blocking up to timeoutTicks if it is full.
func (k *Kernel) Insert(q *Queue, item []byte, timeoutTicks int) Status {
	k.assertf(len(item) == q.itemSize, "item length %d does not match queue itemSize %d", len(item), q.itemSize)

	k.port.EnterCritical()
	defer k.port.ExitCritical()

	if q.full {
		if k.taskWait(&q.sendBlocked, timeoutTicks) == StatusTimeout {
			return StatusTimeout
		}
	}

	copy(q.storage[q.head:q.head+q.itemSize], item)
	q.head = (q.head + q.itemSize) % q.capacity
	if q.head == q.tail {
		q.full = true
	}

	k.wakeHighestPriority(&q.recvBlocked)
	return StatusSuccess
}

// Retrieve copies the next item out of the queue into out (which must be
// itemSize bytes), blocking up to timeoutTicks if it is empty.
func (k *Kernel) Retrieve(q *Queue, out []byte, timeoutTicks int) Status {
	k.assertf(len(out) == q.itemSize, "out length %d does not match queue itemSize %d", len(out), q.itemSize)

	k.port.EnterCritical()
	defer k.port.ExitCritical()

	empty := !q.full && q.head == q.tail
	if empty {
		if k.taskWait(&q.recvBlocked, timeoutTicks) == StatusTimeout {
			return StatusTimeout
		}
	}

	copy(out, q.storage[q.tail:q.tail+q.itemSize])
	q.tail = (q.tail + q.itemSize) % q.capacity
	q.full = false

	k.wakeHighestPriority(&q.sendBlocked)
	return StatusSuccess
}

// InsertISR is the ISR-safe, non-blocking variant of Insert.
func (k *Kernel) InsertISR(q *Queue, item []byte) Status {
	k.assertf(len(item) == q.itemSize, "item length %d does not match queue itemSize %d", len(item), q.itemSize)

	k.port.EnterCritical()
	defer k.port.ExitCritical()

	if q.full {
		return StatusFailed
	}

	copy(q.storage[q.head:q.head+q.itemSize], item)
	q.head = (q.head + q.itemSize) % q.capacity
	if q.head == q.tail {
		q.full = true
	}

	k.wakeHighestPriority(&q.recvBlocked)
	return StatusSuccess
}

// RetrieveISR is the ISR-safe, non-blocking variant of Retrieve.
func (k *Kernel) RetrieveISR(q *Queue, out []byte) Status {
	k.assertf(len(out) == q.itemSize, "out length %d does not match queue itemSize %d", len(out), q.itemSize)

	k.port.EnterCritical()
	defer k.port.ExitCritical()

	empty := !q.full && q.head == q.tail
	if empty {
		return StatusFailed
	}

	copy(out, q.storage[q.tail:q.tail+q.itemSize])
	q.tail = (q.tail + q.itemSize) % q.capacity
	q.full = false

	k.wakeHighestPriority(&q.sendBlocked)
	return StatusSuccess
}
