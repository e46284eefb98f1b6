package player

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Playback is one running clip
type Playback interface {
	// Stop interrupts the clip
	Stop() error

	// Wait blocks until the clip ends or is stopped
	Wait() error
}

// Backend starts clips on some output device
type Backend interface {
	Start(path string) (Playback, error)
}

// Player plays at most one clip at a time. Starting a clip stops the
// previous one first. Failures are reported as warnings and never
// returned, so callers can fire and forget.
type Player struct {
	backend Backend
	out     io.Writer

	mu      sync.Mutex
	current Playback
	path    string
	gen     uint64
	done    chan struct{}
}

// New creates a player writing warnings to out
func New(backend Backend, out io.Writer) *Player {
	return &Player{backend: backend, out: out}
}

// Play stops the current clip and starts path
func (p *Player) Play(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(p.out, "Warning: Audio file not found: %s\n", path)
		return
	}

	pb, err := p.backend.Start(path)
	if err != nil {
		fmt.Fprintf(p.out, "Warning: Could not play audio: %s: %v\n", path, err)
		return
	}

	p.gen++
	p.current = pb
	p.path = path
	p.done = make(chan struct{})

	go p.wait(pb, p.gen, path, p.done)
}

// Stop interrupts the current clip, if any
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
}

// Playing returns the path of the clip in progress
func (p *Player) Playing() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.path, p.current != nil
}

// Wait blocks until the current clip, if any, has finished
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (p *Player) stopLocked() {
	if p.current == nil {
		return
	}

	// bump the generation so the waiter of the stopped clip stays silent
	p.gen++
	if err := p.current.Stop(); err != nil {
		fmt.Fprintf(p.out, "Warning: Could not stop audio: %s: %v\n", p.path, err)
	}
	p.current = nil
	p.path = ""
}

func (p *Player) wait(pb Playback, gen uint64, path string, done chan struct{}) {
	defer close(done)
	err := pb.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		return
	}
	if err != nil {
		fmt.Fprintf(p.out, "Warning: Could not play audio: %s: %v\n", path, err)
	}
	p.current = nil
	p.path = ""
}
