package jobmgr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) report(s string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, s)
	r.mu.Unlock()
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

func TestStartAsyncRejectsDuplicate(t *testing.T) {
	m := NewManager(nil)
	started := make(chan struct{})
	require.NoError(t, m.StartAsync(context.Background(), "job", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return nil
	}))
	<-started

	err := m.StartAsync(context.Background(), "job", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
	assert.Equal(t, []string{"job"}, m.List())

	require.NoError(t, m.Stop("job"))
	assert.Empty(t, m.List())
	assert.Error(t, m.Stop("job"))
}

func TestJobsReportLifecycle(t *testing.T) {
	rec := &recorder{}
	m := NewManager(rec.report)

	require.NoError(t, m.StartAsync(context.Background(), "ok", func(ctx context.Context) error { return nil }))
	require.NoError(t, m.StartAsync(context.Background(), "bad", func(ctx context.Context) error { return errors.New("boom") }))
	m.StopAll()

	assert.Contains(t, rec.all(), "done:ok")
	assert.Contains(t, rec.all(), "error:bad:boom")
}

func TestStopAllWaitsForJobs(t *testing.T) {
	m := NewManager(nil)
	var finished sync.WaitGroup
	finished.Add(1)
	flag := make(chan struct{})

	require.NoError(t, m.StartAsync(context.Background(), "slow", func(ctx context.Context) error {
		defer finished.Done()
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		close(flag)
		return nil
	}))

	m.StopAll()
	select {
	case <-flag:
	default:
		t.Fatal("StopAll returned before the job finished")
	}
	finished.Wait()
}
