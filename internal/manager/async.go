package manager

import (
	"context"

	"github.com/xess-engine/xsc/internal/shader"
)

// Pending is the handle to an asynchronous compile. The caller either
// polls it or blocks on it; the compile itself is not cancelable and
// always runs to completion.
type Pending struct {
	done     chan struct{}
	artifact *shader.Artifact
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func (p *Pending) finish(artifact *shader.Artifact) {
	p.artifact = artifact
	close(p.done)
}

// Done returns a channel closed when the compile finishes.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Poll returns the artifact if the compile has finished.
func (p *Pending) Poll() (*shader.Artifact, bool) {
	select {
	case <-p.done:
		return p.artifact, true
	default:
		return nil, false
	}
}

// Wait blocks until the compile finishes or the context is canceled.
// Cancellation abandons the wait, not the compile.
func (p *Pending) Wait(ctx context.Context) (*shader.Artifact, error) {
	select {
	case <-p.done:
		return p.artifact, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
