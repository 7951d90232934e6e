package progress

import (
	"fmt"
	"io"

	"github.com/gosuri/uiprogress"
)

// Nop discards progress.
type Nop struct{}

func (Nop) Start(int)   {}
func (Nop) Step(string) {}
func (Nop) Stop()       {}

// Bars renders one bar that advances per exported repository.
type Bars struct {
	p   *uiprogress.Progress
	bar *uiprogress.Bar
}

func NewBars(out io.Writer) *Bars {
	p := uiprogress.New()
	p.SetOut(out)
	return &Bars{p: p}
}

func (b *Bars) Start(total int) {
	b.bar = b.p.AddBar(total).AppendCompleted().PrependElapsed()
	b.bar.PrependFunc(func(bar *uiprogress.Bar) string {
		return fmt.Sprintf("repositories %d/%d", bar.Current(), total)
	})
	b.p.Start()
}

func (b *Bars) Step(string) {
	if b.bar == nil {
		return
	}
	b.bar.Incr()
}

func (b *Bars) Stop() {
	if b.bar == nil {
		return
	}
	b.p.Stop()
}
