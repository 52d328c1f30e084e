// Package jobmgr runs named background jobs with cancellation, status
// callbacks, and in-memory tracking of running jobs.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(func(msg string) {
//	    log.Debug().Msg(msg)
//	})
//
//	err := jm.StartAsync(ctx, "watch-sounds", func(ctx context.Context) error {
//	    // do work until ctx is cancelled
//	    return nil
//	})
//
//	// on shutdown
//	jm.StopAll()
package jobmgr

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Job represents a running unit of work.
// Jobs are added and removed by Manager automatically.
type Job struct {
	Name   string
	Cancel context.CancelFunc
	done   chan struct{}
}

// StatusReporter receives lifecycle events for jobs.
// Example messages:
//
//	running:watch-sounds
//	error:watch-sounds:no such directory
//	done:watch-sounds
type StatusReporter func(string)

// Manager orchestrates starting, stopping and tracking jobs.
// It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*Job
	wg       sync.WaitGroup
	Reporter StatusReporter
}

// NewManager creates a new Manager.
// The reporter callback may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*Job),
		Reporter: reporter,
	}
}

// StartAsync runs a job in a separate goroutine and returns immediately.
// The job context derives from parent. If a job with the same name is
// already running, an error is returned. Jobs are removed automatically
// after completion (success or failure).
func (m *Manager) StartAsync(parent context.Context, name string, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		return fmt.Errorf("job '%s' is already running", name)
	}

	ctx, cancel := context.WithCancel(parent)
	job := &Job{Name: name, Cancel: cancel, done: make(chan struct{})}
	m.jobs[name] = job
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer close(job.done)
		defer cancel()

		m.report("running:" + name)

		if err := runner(ctx); err != nil {
			m.report("error:" + name + ":" + err.Error())
		} else {
			m.report("done:" + name)
		}

		m.mu.Lock()
		if m.jobs[name] == job {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()

	return nil
}

// Stop cancels a running job by name and waits for it to return.
// If the job is not running, an error is returned.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	job, ok := m.jobs[name]
	if ok {
		delete(m.jobs, name)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("job '%s' not running", name)
	}

	job.Cancel()
	<-job.done
	return nil
}

// StopAll cancels every job and waits for all of them to return.
func (m *Manager) StopAll() {
	m.mu.Lock()
	for name, job := range m.jobs {
		job.Cancel()
		delete(m.jobs, name)
	}
	m.mu.Unlock()

	m.wg.Wait()
}

// List returns the sorted names of active jobs.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// report delivers lifecycle messages to the reporter if present.
func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
