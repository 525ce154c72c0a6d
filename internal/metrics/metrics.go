package metrics

import (
	"sync/atomic"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Custom metric names reported to New Relic.
const (
	metricReceived           = "Custom/ITN/Received"
	metricRejected           = "Custom/ITN/Rejected"
	metricDuplicates         = "Custom/ITN/Duplicates"
	metricReconciled         = "Custom/ITN/Reconciled"
	metricFailed             = "Custom/ITN/Failed"
	metricSettled            = "Custom/ITN/Settled"
	metricEnrollmentFailures = "Custom/ITN/EnrollmentFailures"
)

// Counters tracks notification processing in-process. Every increment is
// mirrored as a New Relic custom metric when an application is attached.
type Counters struct {
	received           atomic.Uint64
	rejected           atomic.Uint64
	duplicates         atomic.Uint64
	reconciled         atomic.Uint64
	failed             atomic.Uint64
	settled            atomic.Uint64
	enrollmentFailures atomic.Uint64

	nrApp *newrelic.Application
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Received           uint64 `json:"received"`
	Rejected           uint64 `json:"rejected"`
	Duplicates         uint64 `json:"duplicates"`
	Reconciled         uint64 `json:"reconciled"`
	Failed             uint64 `json:"failed"`
	Settled            uint64 `json:"settled"`
	EnrollmentFailures uint64 `json:"enrollment_failures"`
}

// NewCounters creates Counters. nrApp may be nil.
func NewCounters(nrApp *newrelic.Application) *Counters {
	return &Counters{nrApp: nrApp}
}

func (c *Counters) IncReceived()   { c.add(&c.received, metricReceived, 1) }
func (c *Counters) IncRejected()   { c.add(&c.rejected, metricRejected, 1) }
func (c *Counters) IncDuplicate()  { c.add(&c.duplicates, metricDuplicates, 1) }
func (c *Counters) IncReconciled() { c.add(&c.reconciled, metricReconciled, 1) }
func (c *Counters) IncFailed()     { c.add(&c.failed, metricFailed, 1) }
func (c *Counters) IncSettled()    { c.add(&c.settled, metricSettled, 1) }

// AddEnrollmentFailures records n enrollment activations that did not succeed.
func (c *Counters) AddEnrollmentFailures(n int) {
	if n <= 0 {
		return
	}
	c.add(&c.enrollmentFailures, metricEnrollmentFailures, uint64(n))
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Received:           c.received.Load(),
		Rejected:           c.rejected.Load(),
		Duplicates:         c.duplicates.Load(),
		Reconciled:         c.reconciled.Load(),
		Failed:             c.failed.Load(),
		Settled:            c.settled.Load(),
		EnrollmentFailures: c.enrollmentFailures.Load(),
	}
}

func (c *Counters) add(counter *atomic.Uint64, name string, n uint64) {
	counter.Add(n)
	if c.nrApp != nil {
		c.nrApp.RecordCustomMetric(name, float64(n))
	}
}
