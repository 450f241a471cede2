package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
)

// Progress draws a single-line progress bar, redrawn in place. Update may be
// called from several goroutines.
type Progress struct {
	mu   sync.Mutex
	w    io.Writer
	bar  progress.Model
	last int
}

// NewProgress returns a bar of the given width writing to w.
func NewProgress(w io.Writer, width int) *Progress {
	return &Progress{
		w:   w,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(width)),
	}
}

// Update redraws the bar for done of total. Out-of-order calls that would
// move the bar backwards are dropped.
func (p *Progress) Update(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if done <= p.last || total <= 0 {
		return
	}
	p.last = done
	fmt.Fprintf(p.w, "\r%s %d/%d", p.bar.ViewAs(float64(done)/float64(total)), done, total)
}

// Done ends the progress line.
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last > 0 {
		fmt.Fprintln(p.w)
	}
}
