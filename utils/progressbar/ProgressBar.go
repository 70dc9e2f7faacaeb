// Package progressbar implements functionality of printing a progress
// bar to a terminal
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressBar implements a concurrent progress bar. Once displayed, the
// bar is redrawn in a separate goroutine every update interval until
// it is closed. Increment may be called from any goroutine.
type ProgressBar struct {
	mu sync.Mutex

	// width determines the number of characters wide that the progress
	// bar should be
	width int

	// maxProgress determines the number of times Increment() should
	// be called before the progress bar reaches 100%.
	maxProgress int

	// currentProgress counts the number of times Increment() was called
	currentProgress int

	out         io.Writer
	startTime   time.Time
	updateEvery time.Duration

	displayed bool
	closed    bool
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewProgressBar returns a new progress bar that is width characters
// wide, reaches 100% capacity after max Increment() calls and is
// redrawn to out every updateEvery.
func NewProgressBar(out io.Writer, width, max int,
	updateEvery time.Duration) *ProgressBar {
	return &ProgressBar{
		width:       width,
		maxProgress: max,
		out:         out,
		updateEvery: updateEvery,
		done:        make(chan struct{}),
	}
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Progress returns the fraction of the progress bar that is complete
func (p *ProgressBar) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.fraction()
}

func (p *ProgressBar) fraction() float64 {
	if p.maxProgress <= 0 {
		return 1
	}
	return float64(p.currentProgress) / float64(p.maxProgress)
}

// Display starts drawing the progress bar. It should only be called
// once.
func (p *ProgressBar) Display() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.displayed || p.closed {
		return
	}
	p.displayed = true
	p.startTime = time.Now()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		tick := time.NewTicker(p.updateEvery)
		defer tick.Stop()

		for {
			select {
			case <-tick.C:
				p.draw()
			case <-p.done:
				return
			}
		}
	}()
}

// Close stops drawing the progress bar, drawing it one final time if it
// was displayed. Close panics if called twice.
func (p *ProgressBar) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		panic("close: close on closed progress bar")
	}
	p.closed = true
	displayed := p.displayed
	p.mu.Unlock()

	close(p.done)
	p.wg.Wait()

	if displayed {
		p.draw()
		fmt.Fprintln(p.out) // Jump to next line after printed bar
	}
}

// draw redraws the progress bar on the current line
func (p *ProgressBar) draw() {
	p.mu.Lock()
	bar := p.render()
	p.mu.Unlock()

	fmt.Fprintf(p.out, "\r\033[K%v", bar)
}

// String returns the text of the progress bar
func (p *ProgressBar) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.render()
}

func (p *ProgressBar) render() string {
	var bar strings.Builder
	bar.WriteString("|")

	filled := int(p.fraction() * float64(p.width))
	bar.WriteString(strings.Repeat("█", filled))
	bar.WriteString(strings.Repeat(" ", p.width-filled))

	elapsed := time.Duration(0)
	if !p.startTime.IsZero() {
		elapsed = time.Since(p.startTime).Truncate(time.Second)
	}
	fmt.Fprintf(&bar, "| [%.2f%% | elapsed: %v]", p.fraction()*100, elapsed)

	return bar.String()
}
