package pool

import (
	"container/heap"
	"time"
)

// expiryQueue - min-куча хэндлов по времени истечения.
// При равном времени раньше выходит тот, кто раньше взят (Seq).
type expiryQueue []*Handle

func (q expiryQueue) Len() int { return len(q) }

func (q expiryQueue) Less(i, j int) bool {
	if q[i].ExpiresAt != q[j].ExpiresAt {
		return q[i].ExpiresAt < q[j].ExpiresAt
	}
	return q[i].Seq < q[j].Seq
}

func (q expiryQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *expiryQueue) Push(x interface{}) {
	h := x.(*Handle)
	h.index = len(*q)
	*q = append(*q, h)
}

func (q *expiryQueue) Pop() interface{} {
	old := *q
	n := len(old)
	h := old[n-1]
	old[n-1] = nil // избегаем утечки памяти
	h.index = -1
	*q = old[:n-1]
	return h
}

// peek - ближайший к истечению хэндл или nil
func (q expiryQueue) peek() *Handle {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}

// reschedule меняет время истечения уже стоящего в очереди хэндла
func (q *expiryQueue) reschedule(h *Handle, at time.Duration) {
	h.ExpiresAt = at
	heap.Fix(q, h.index)
}
