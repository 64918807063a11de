package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar tracks how many accesses of a run have been issued.
type ProgressBar struct {
	sync.Mutex
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
	Done      bool      `json:"done"`
}

type progressBarView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
	Done      bool      `json:"done"`
}

// IncrementFinished adds a certain amount to the finished accesses.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// Complete marks all the accesses finished.
func (b *ProgressBar) Complete() {
	b.Lock()
	defer b.Unlock()

	b.Finished = b.Total
	b.Done = true
}

func (b *ProgressBar) view() progressBarView {
	b.Lock()
	defer b.Unlock()

	return progressBarView{
		ID:        b.ID,
		Name:      b.Name,
		StartTime: b.StartTime,
		Total:     b.Total,
		Finished:  b.Finished,
		Done:      b.Done,
	}
}
