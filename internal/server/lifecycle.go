// Package server manages the API server's startup and shutdown: one-shot
// warmup tasks followed by long-running services, with signal handling
// and bounded graceful stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component. Serve blocks until the service
// stops or fails; Shutdown stops it, honoring the context deadline.
type Service interface {
	Serve() error
	Shutdown(ctx context.Context)
}

// ServiceFuncs adapts a serve/shutdown function pair into a Service.
type ServiceFuncs struct {
	ServeFn    func() error
	ShutdownFn func(ctx context.Context)
}

// Serve calls the underlying serve function.
func (s *ServiceFuncs) Serve() error { return s.ServeFn() }

// Shutdown calls the underlying shutdown function.
func (s *ServiceFuncs) Shutdown(ctx context.Context) { s.ShutdownFn(ctx) }

// Task is a one-shot startup step, such as priming a cache or warming a
// catalog. Tasks run sequentially before any service starts; a failing
// task is logged and skipped, never fatal.
type Task func(ctx context.Context) error

// Lifecycle runs warmup tasks, then services. Services start in the
// order they were added and shut down in reverse.
type Lifecycle struct {
	logger          *zap.Logger
	shutdownTimeout time.Duration

	mu       sync.Mutex
	tasks    []namedTask
	services []namedService
}

type namedTask struct {
	name string
	task Task
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates a Lifecycle with the given per-service shutdown
// timeout.
//
// Precondition: logger must be non-nil; shutdownTimeout must be > 0.
func NewLifecycle(logger *zap.Logger, shutdownTimeout time.Duration) *Lifecycle {
	return &Lifecycle{
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
}

// AddTask registers a named warmup task. Tasks run in registration
// order, before any service.
func (l *Lifecycle) AddTask(name string, task Task) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tasks = append(l.tasks, namedTask{name: name, task: task})
}

// AddService registers a named long-running service.
func (l *Lifecycle) AddService(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run executes the warmup tasks, starts all services, and blocks until
// a termination signal (SIGINT or SIGTERM), a service failure, or
// context cancellation. Services are then shut down in reverse order.
//
// Postcondition: every started service has been shut down when Run
// returns.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.runTasks(ctx)

	errCh := make(chan error, len(l.services))
	for _, ns := range l.services {
		ns := ns
		go func() {
			l.logger.Info("service starting", zap.String("service", ns.name))
			if err := ns.service.Serve(); err != nil {
				errCh <- fmt.Errorf("service %s: %w", ns.name, err)
				cancel()
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		l.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		l.logger.Error("service failed, shutting down", zap.Error(err))
		runErr = err
	case <-ctx.Done():
		// A failing service cancels the context; surface its error if
		// one is already queued.
		select {
		case err := <-errCh:
			l.logger.Error("service failed, shutting down", zap.Error(err))
			runErr = err
		default:
			l.logger.Info("context cancelled, shutting down")
		}
	}

	l.shutdown()

	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(start)))
	return runErr
}

// runTasks executes the warmup tasks sequentially. Failures degrade:
// the task's effect is missing until it next applies, nothing more.
func (l *Lifecycle) runTasks(ctx context.Context) {
	for _, nt := range l.tasks {
		taskStart := time.Now()
		if err := nt.task(ctx); err != nil {
			l.logger.Warn("warmup task failed",
				zap.String("task", nt.name),
				zap.Error(err),
			)
			continue
		}
		l.logger.Info("warmup task complete",
			zap.String("task", nt.name),
			zap.Duration("elapsed", time.Since(taskStart)),
		)
	}
}

// shutdown stops services in reverse order, bounding each stop by the
// configured timeout.
func (l *Lifecycle) shutdown() {
	for i := len(l.services) - 1; i >= 0; i-- {
		ns := l.services[i]
		stopStart := time.Now()
		stopCtx, cancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
		ns.service.Shutdown(stopCtx)
		cancel()
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(stopStart)),
		)
	}
}
