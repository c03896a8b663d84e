// Command daedalusdemo is a Go analogue of original_source/app.c: two tasks
// sharing a 5-slot queue of ints, with mutex-guarded output standing in for
// the original's stdout_mtx-guarded os_printf. Task A (priority 2) inserts,
// Task B (priority 1) retrieves, both under a 1-second timeout matching the
// original's OS_SEC_TO_TICKS(1).
//
// Run with: go run ./cmd/daedalusdemo
package main

import (
	"encoding/binary"
	"fmt"
	"os"

	daedalusos "github.com/kurtjd/daedalus-os"
	"github.com/kurtjd/daedalus-os/hostport"
)

const clockHz = 100 // matches original_source/daedalus_os.h's default OS_CLK_HZ

var (
	outputMtx *daedalusos.Mutex
	k         *daedalusos.Kernel
)

// printf serializes stdout writes under outputMtx, the same role
// app.c's os_printf plays around stdout_mtx. A failed acquire (the mutex
// held longer than the timeout) is treated the same way app.c treats any
// of its own failures: the process exits.
func printf(format string, args ...any) {
	if k.Acquire(outputMtx, clockHz*100) != daedalusos.StatusSuccess {
		os.Exit(1)
	}
	defer k.Release(outputMtx)
	fmt.Printf(format, args...)
}

func taskA(any) {
	buf := make([]byte, 4)
	for {
		k.TaskYield()

		binary.LittleEndian.PutUint32(buf, 69)
		if k.Insert(queue, buf, clockHz) == daedalusos.StatusSuccess {
			printf("I inserted in Q OwO\n")
		} else {
			printf("Failed insert 8==D T^T\n")
			os.Exit(0)
		}
	}
}

func taskB(any) {
	buf := make([]byte, 4)
	for {
		k.TaskYield()

		printf("ok\n")
		if k.Retrieve(queue, buf, clockHz) == daedalusos.StatusSuccess {
			printf("I got: %d\n", binary.LittleEndian.Uint32(buf))
		} else {
			printf("FUK\n")
			os.Exit(0)
		}
	}
}

var queue *daedalusos.Queue

func main() {
	logger := daedalusos.NewDefaultLogger(daedalusos.LevelWarn)
	port := hostport.New(hostport.WithLogger(logger))
	k = daedalusos.New(port,
		daedalusos.WithClockHz(clockHz),
		daedalusos.WithIdleEntry(port.IdleEntry),
		daedalusos.WithLogger(logger),
	)
	port.BindIdle(k.IdleTaskID())

	outputMtx = k.NewMutex()
	queue = k.NewQueue(5, 4)

	k.TaskCreate(taskA, nil, make([]uint32, 16), 16, 2)
	k.TaskCreate(taskB, nil, make([]uint32, 16), 16, 1)

	k.Start()

	// Start itself returns once the first context switch is requested:
	// unlike real hardware, this process's main goroutine is not the
	// scheduler's call stack, so nothing stops it unwinding on its own.
	// Block forever so the task goroutines hostport spawned keep running.
	select {}
}
