package utils

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool_RunsSubmittedJobs(t *testing.T) {
	pool := NewWorkerPool(4, 16)
	pool.Start()
	defer pool.Stop()

	var counter int32
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			atomic.AddInt32(&counter, 1)
		})
	}
	wg.Wait()

	assert.EqualValues(t, 100, counter)
}

func TestWorkerPool_SurvivesPanickingJob(t *testing.T) {
	pool := NewWorkerPool(1, 4)
	pool.Start()
	defer pool.Stop()

	done := make(chan struct{})
	pool.Submit(func() { panic("boom") })
	pool.Submit(func() { close(done) })

	<-done
}
