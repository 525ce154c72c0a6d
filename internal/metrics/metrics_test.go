package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounters_ConcurrentIncrements(t *testing.T) {
	c := NewCounters(nil)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.IncReceived()
			c.IncReconciled()
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, uint64(100), snap.Received)
	assert.Equal(t, uint64(100), snap.Reconciled)
	assert.Zero(t, snap.Rejected)
}

func TestCounters_EnrollmentFailuresIgnoresNonPositive(t *testing.T) {
	c := NewCounters(nil)

	c.AddEnrollmentFailures(0)
	c.AddEnrollmentFailures(-2)
	c.AddEnrollmentFailures(3)

	assert.Equal(t, uint64(3), c.Snapshot().EnrollmentFailures)
}

func TestCounters_Snapshot(t *testing.T) {
	c := NewCounters(nil)
	c.IncRejected()
	c.IncDuplicate()
	c.IncFailed()
	c.IncSettled()

	assert.Equal(t, Snapshot{Rejected: 1, Duplicates: 1, Failed: 1, Settled: 1}, c.Snapshot())
}
