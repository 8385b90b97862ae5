// engine.go - wires the RIA and VGA halves together over the PIX bus

package main

import "context"

// TraceSource supplies bus transactions to an Engine run, one at a
// time. A caller-authored recording, a live 6502 bus tap, or a
// synthetic test scenario all satisfy this interface identically.
type TraceSource interface {
	Next() (BusTransaction, bool)
}

// Engine owns one RIA, one VGA, and the PIX/backchannel plumbing
// between them, and runs them against a TraceSource until it is
// exhausted or the RIA halts.
type Engine struct {
	Ria         *Ria
	Vga         *Vga
	Framebuffer *Framebuffer

	pixQueue *pixQueue
	backCh   chan Backchannel
}

// NewEngine builds a fully-wired Engine: a fresh RIA and VGA sharing
// an unbounded PIX queue and a buffered backchannel, and a published
// framebuffer either side can read.
func NewEngine() *Engine {
	pq := newPixQueue()
	back := make(chan Backchannel, 64)
	fb := NewFramebuffer()

	return &Engine{
		Ria:         NewRia(pq, back),
		Vga:         NewVga(pq, back, fb),
		Framebuffer: fb,
		pixQueue:    pq,
		backCh:      back,
	}
}

// Run starts the VGA on its own goroutine and drives the RIA inline
// on the caller's goroutine, feeding it every transaction src yields,
// until src is exhausted, the RIA halts (OP exit or a closed
// backchannel), or ctx is cancelled. It then closes the PIX queue and
// waits for the VGA goroutine to drain and exit.
func (e *Engine) Run(ctx context.Context, src TraceSource) {
	done := make(chan struct{})
	go func() {
		e.Vga.Run()
		close(done)
	}()

	for {
		select {
		case <-ctx.Done():
			e.pixQueue.Close()
			<-done
			return
		default:
		}

		txn, ok := src.Next()
		if !ok {
			break
		}
		e.Ria.Process(txn)
		if !e.Ria.Running {
			break
		}
	}

	e.pixQueue.Close()
	<-done
}
