package pipeline

import "sync"

// Progress is emitted after each screenshot finishes processing.
type Progress struct {
	Current int     `json:"current"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
	Stage   string  `json:"stage"`
	File    string  `json:"file"`
}

// ProgressFunc receives progress updates. It may be called from worker goroutines,
// but never concurrently.
type ProgressFunc func(Progress)

// reporter serializes progress so counts never go backwards.
type reporter struct {
	mu      sync.Mutex
	current int
	total   int
	fn      ProgressFunc
}

func (r *reporter) done(stage, file string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current++
	if r.fn == nil {
		return
	}
	var percent float64
	if r.total > 0 {
		percent = float64(r.current) / float64(r.total) * 100
	}
	r.fn(Progress{
		Current: r.current,
		Total:   r.total,
		Percent: percent,
		Stage:   stage,
		File:    file,
	})
}
