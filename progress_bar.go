package proteintree

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"
)

// Progress receives ticks while an index is built and is polled for
// cooperative cancellation.
type Progress interface {
	Tick()
	Canceled() bool
}

// Stager is implemented by progress sinks that want to know when Build
// moves on to a new phase and how many ticks that phase will produce.
type Stager interface {
	Stage(label string, total int)
}

type noProgress struct{}

func (noProgress) Tick()          {}
func (noProgress) Canceled() bool { return false }

// ProgressBar is a Progress that redraws a text progress bar on the verbose
// output. Cancel may be called from any goroutine.
type ProgressBar struct {
	Label   string
	Total   uint64
	Current uint64

	canceled int32
	drawLock sync.Mutex
}

func (bar *ProgressBar) Stage(label string, total int) {
	bar.drawLock.Lock()
	if atomic.LoadUint64(&bar.Total) > 0 {
		Vprint("\n")
	}
	bar.Label = label
	atomic.StoreUint64(&bar.Total, uint64(total))
	atomic.StoreUint64(&bar.Current, 0)
	bar.drawLock.Unlock()
}

func (bar *ProgressBar) Increment() uint64 {
	return atomic.AddUint64(&bar.Current, 1)
}

func (bar *ProgressBar) Tick() {
	cur := bar.Increment()
	total := atomic.LoadUint64(&bar.Total)
	step := total / 100
	if step == 0 || cur%step == 0 || cur == total {
		bar.ClearAndDisplay()
	}
}

func (bar *ProgressBar) Cancel() {
	atomic.StoreInt32(&bar.canceled, 1)
}

func (bar *ProgressBar) Canceled() bool {
	return atomic.LoadInt32(&bar.canceled) == 1
}

func (bar *ProgressBar) ClearAndDisplay() {
	bar.drawLock.Lock()
	defer bar.drawLock.Unlock()

	total := atomic.LoadUint64(&bar.Total)
	current := atomic.LoadUint64(&bar.Current)
	if total == 0 {
		return
	}
	if current > total {
		current = total
	}

	buf := new(bytes.Buffer)
	barWidth := uint64(0)
	if len(bar.Label) < 60 {
		barWidth = uint64(60 - len(bar.Label))
	}
	ticks := (barWidth * current) / total
	fmt.Fprintf(buf, "\r%s [", bar.Label)
	buf.Write(bytes.Repeat([]byte{'='}, int(ticks)))
	buf.Write(bytes.Repeat([]byte{' '}, int(barWidth-ticks)))
	fmt.Fprintf(buf, "] %d / %d", current, total)
	Vprint(buf.String())
}
