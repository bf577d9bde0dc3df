package progress

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// reportInterval limits how often a transfer update is printed.
const reportInterval = 200 * time.Millisecond

// Reader wraps an io.Reader and periodically reports how much of a
// transfer has been read. With total > 0 a percentage is shown.
type Reader struct {
	r     io.Reader
	out   io.Writer
	label string
	total int64

	mu       sync.Mutex
	read     int64
	lastTick time.Time
}

// NewReader wraps r, labelling updates written to out.
func NewReader(r io.Reader, total int64, label string, out io.Writer) *Reader {
	return &Reader{r: r, out: out, label: label, total: total}
}

func (p *Reader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.mu.Lock()
		p.read += int64(n)
		if now := time.Now(); now.Sub(p.lastTick) >= reportInterval {
			p.report()
			p.lastTick = now
		}
		p.mu.Unlock()
	}
	if err == io.EOF && p.out != nil {
		p.mu.Lock()
		p.report()
		fmt.Fprint(p.out, "\n")
		p.mu.Unlock()
	}
	return n, err
}

func (p *Reader) report() {
	if p.out == nil {
		return
	}
	if p.total > 0 {
		pct := float64(p.read) / float64(p.total) * 100
		fmt.Fprintf(p.out, "\r[%s] %.1f%% (%d/%d bytes)", p.label, pct, p.read, p.total)
		return
	}
	fmt.Fprintf(p.out, "\r[%s] %d bytes", p.label, p.read)
}
