package daedalusos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tasksWithPriorities(priorities ...uint8) []TCB {
	tasks := make([]TCB, len(priorities))
	for i, p := range priorities {
		tasks[i] = TCB{id: i, priority: p, next: noTask, prev: noTask}
	}
	return tasks
}

func TestTaskListInsertHeadOrdering(t *testing.T) {
	r := require.New(t)
	tasks := tasksWithPriorities(1, 1, 1)
	l := newTaskList()

	l.insertHead(tasks, 0)
	l.insertHead(tasks, 1)
	l.insertHead(tasks, 2)

	var got []int
	l.forEach(tasks, func(id int) { got = append(got, id) })
	r.Equal([]int{2, 1, 0}, got)
}

func TestTaskListRemoveMiddle(t *testing.T) {
	r := require.New(t)
	tasks := tasksWithPriorities(1, 1, 1)
	l := newTaskList()
	l.insertHead(tasks, 0)
	l.insertHead(tasks, 1)
	l.insertHead(tasks, 2) // list: 2, 1, 0

	l.remove(tasks, 1)

	var got []int
	l.forEach(tasks, func(id int) { got = append(got, id) })
	r.Equal([]int{2, 0}, got)
	r.Equal(noTask, tasks[1].next)
	r.Equal(noTask, tasks[1].prev)
}

func TestTaskListRemoveHeadAndTail(t *testing.T) {
	r := require.New(t)
	tasks := tasksWithPriorities(1, 1)
	l := newTaskList()
	l.insertHead(tasks, 0)
	l.insertHead(tasks, 1) // list: 1, 0

	l.remove(tasks, 1)
	r.Equal(0, l.head)

	l.remove(tasks, 0)
	r.True(l.empty())
}

func TestTaskListRemoveNoTaskIsNoop(t *testing.T) {
	tasks := tasksWithPriorities(1)
	l := newTaskList()
	l.insertHead(tasks, 0)
	require.NotPanics(t, func() { l.remove(tasks, noTask) })
	require.False(t, l.empty())
}

func TestTaskListHighestPriority(t *testing.T) {
	r := require.New(t)
	tasks := tasksWithPriorities(3, 9, 5, 9)
	l := newTaskList()
	for i := range tasks {
		l.insertHead(tasks, i)
	}

	best := l.highestPriority(tasks)
	// Tasks 1 and 3 tie at priority 9; insertHead made the walk order
	// 3,2,1,0, and ties favor whichever is older (task 1, inserted before
	// task 3), i.e. FIFO among the tied set.
	r.Equal(1, best)
}

func TestTaskListHighestPriorityEmpty(t *testing.T) {
	l := newTaskList()
	require.Equal(t, noTask, l.highestPriority(nil))
}

func TestTaskListForEachSurvivesRemovalOfCurrent(t *testing.T) {
	r := require.New(t)
	tasks := tasksWithPriorities(1, 1, 1)
	l := newTaskList()
	l.insertHead(tasks, 0)
	l.insertHead(tasks, 1)
	l.insertHead(tasks, 2) // list: 2, 1, 0

	var visited []int
	l.forEach(tasks, func(id int) {
		visited = append(visited, id)
		l.remove(tasks, id)
	})

	r.Equal([]int{2, 1, 0}, visited)
	r.True(l.empty())
}
