package simulator

import (
	"container/heap"
	"time"

	"github.com/chrisdamba/foodcart/internal/models"
)

// event moves an order to status at time.
type event struct {
	Time        time.Time
	OrderNumber string
	Status      models.OrderStatus
}

// eventQueue is a priority queue of events ordered by time.
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }
func (q eventQueue) Less(i, j int) bool {
	if q[i].Time.Equal(q[j].Time) {
		return q[i].OrderNumber < q[j].OrderNumber
	}
	return q[i].Time.Before(q[j].Time)
}
func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x interface{}) {
	*q = append(*q, x.(*event))
}

func (q *eventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[0 : n-1]
	return x
}

func (q *eventQueue) enqueue(e *event) {
	heap.Push(q, e)
}

// dequeueDue removes and returns the earliest event at or before now.
func (q *eventQueue) dequeueDue(now time.Time) *event {
	if q.Len() == 0 || (*q)[0].Time.After(now) {
		return nil
	}
	return heap.Pop(q).(*event)
}
