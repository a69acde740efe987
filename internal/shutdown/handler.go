package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Handler cancels the run's context on SIGINT/SIGTERM so in-flight HTTP
// requests abort cleanly.
type Handler struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new shutdown handler
func New() *Handler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Handler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the shutdown context
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Listen starts listening for shutdown signals
func (h *Handler) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		h.Shutdown()
	}()
}

// Shutdown cancels the run context
func (h *Handler) Shutdown() {
	h.cancel()
}
