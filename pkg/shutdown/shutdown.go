// Package shutdown ties process signals to context cancellation and runs
// cleanup steps under one deadline.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// SignalError is the cancellation cause of a context cancelled by a signal.
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	return "received signal " + e.Signal.String()
}

// WithSignals returns a context cancelled when one of sigs arrives, SIGINT
// and SIGTERM when none are given. The signal is logged and recorded as the
// context's cause.
func WithSignals(parent context.Context, log *slog.Logger, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	if len(sigs) == 0 {
		sigs = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancelCause(parent)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	go func() {
		defer signal.Stop(ch)
		select {
		case <-ctx.Done():
		case sig := <-ch:
			log.Info("shutdown signal received", slog.String("signal", sig.String()))
			cancel(&SignalError{Signal: sig})
		}
	}()

	return ctx, func() { cancel(context.Canceled) }
}

// Signal returns the signal that cancelled ctx, or nil.
func Signal(ctx context.Context) os.Signal {
	var se *SignalError
	if errors.As(context.Cause(ctx), &se) {
		return se.Signal
	}
	return nil
}

// Step is one cleanup action, e.g. draining an HTTP server.
type Step struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Run executes steps in order, all sharing one timeout. A failing step does
// not stop the ones after it.
func Run(timeout time.Duration, log *slog.Logger, steps ...Step) error {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, step := range steps {
		start := time.Now()
		if err := step.Fn(ctx); err != nil {
			log.Error("shutdown step failed", slog.String("step", step.Name), slog.Any("err", err))
			errs = append(errs, fmt.Errorf("%s: %w", step.Name, err))
			continue
		}
		log.Info("shutdown step done", slog.String("step", step.Name), slog.Duration("took", time.Since(start)))
	}
	return errors.Join(errs...)
}
