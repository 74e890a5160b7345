package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"aria/progress"
	"aria/store"
	"aria/types"
)

// WatchView renders the job list as terminal progress bars. Each in-flight
// job gets its own interpolator so the bars glide between server updates
// instead of jumping.
type WatchView struct {
	jobs store.JobStore
	out  io.Writer

	mu          sync.Mutex
	views       map[string]*jobView
	onCompleted func(job types.GenerationJob)
	unsubscribe func()
}

type jobView struct {
	bar     *progressbar.ProgressBar
	interp  *progress.Interpolator
	settled bool
}

// NewWatchView attaches a view to the job store and starts rendering
func NewWatchView(jobs store.JobStore, out io.Writer, onCompleted func(job types.GenerationJob)) *WatchView {
	v := &WatchView{
		jobs:        jobs,
		out:         out,
		views:       make(map[string]*jobView),
		onCompleted: onCompleted,
	}
	v.unsubscribe = jobs.Subscribe(v.refresh)
	v.refresh()
	return v
}

// refresh reconciles the bars against the current job list
func (v *WatchView) refresh() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, job := range v.jobs.Jobs() {
		view, ok := v.views[job.ID]
		if !ok {
			view = v.newJobView(job)
			v.views[job.ID] = view
		}

		if view.settled {
			continue
		}

		view.interp.SetTarget(job.Progress, job.Status == types.JobStatusGenerating)

		switch job.Status {
		case types.JobStatusCompleted:
			view.settled = true
			view.bar.Finish()
			fmt.Fprintf(v.out, "\ncompleted: %s\n", job.Title)
			if v.onCompleted != nil {
				go v.onCompleted(job)
			}
		case types.JobStatusFailed:
			view.settled = true
			view.bar.Exit()
			fmt.Fprintf(v.out, "\nfailed: %s (%s)\n", job.Prompt, job.Error)
		}
	}
}

func (v *WatchView) newJobView(job types.GenerationJob) *jobView {
	label := job.Title
	if label == "" {
		label = job.Prompt
	}
	label = truncateLabel(label, 40)

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(v.out),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
	)

	view := &jobView{bar: bar}
	view.interp = progress.NewInterpolator(job.Progress, func(displayed int) {
		// interpolator frames arrive off the render path
		_ = bar.Set(displayed)
	})
	return view
}

// truncateLabel shortens a bar description on rune boundaries so multi-byte
// prompts cannot be cut mid-character
func truncateLabel(label string, max int) string {
	runes := []rune(label)
	if len(runes) <= max {
		return label
	}
	return string(runes[:max-3]) + "..."
}

// Settled reports whether every tracked job has reached a terminal state
func (v *WatchView) Settled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.views) == 0 {
		return false
	}
	for _, view := range v.views {
		if !view.settled {
			return false
		}
	}
	return true
}

// Close detaches from the store and stops every animation
func (v *WatchView) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, view := range v.views {
		view.interp.Stop()
	}
}
