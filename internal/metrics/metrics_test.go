package metrics

import (
	"errors"
	"testing"
	"time"
)

// captureBackend records calls for assertions.
type captureBackend struct {
	counters   map[string]float64
	histograms map[string][]float64
	labels     map[string]Labels
	flushed    int
}

func newCaptureBackend() *captureBackend {
	return &captureBackend{
		counters:   map[string]float64{},
		histograms: map[string][]float64{},
		labels:     map[string]Labels{},
	}
}

func (c *captureBackend) IncCounter(name string, delta float64, labels Labels) {
	c.counters[name] += delta
	c.labels[name] = labels
}

func (c *captureBackend) ObserveHistogram(name string, value float64, labels Labels) {
	c.histograms[name] = append(c.histograms[name], value)
	c.labels[name] = labels
}

func (c *captureBackend) Flush() error {
	c.flushed++
	return nil
}

// Note: these tests mutate the package-global backend, so they must not run
// in parallel with each other.

func TestRecordStep(t *testing.T) {
	b := newCaptureBackend()
	SetBackend(b)
	defer SetBackend(nopBackend{})

	RecordStep("job1", "pivot", nil, 250*time.Millisecond)
	if got := b.counters["xtab_step_total"]; got != 1 {
		t.Fatalf("step counter = %v, want 1", got)
	}
	if got := b.labels["xtab_step_total"]["status"]; got != "success" {
		t.Fatalf("status label = %q, want success", got)
	}
	if got := b.histograms["xtab_step_duration_seconds"]; len(got) != 1 || got[0] != 0.25 {
		t.Fatalf("duration observations = %v, want [0.25]", got)
	}

	RecordStep("job1", "pivot", errors.New("boom"), time.Second)
	if got := b.labels["xtab_step_total"]["status"]; got != "failure" {
		t.Fatalf("status label = %q, want failure", got)
	}
}

func TestRecordRows_IgnoresNonPositive(t *testing.T) {
	b := newCaptureBackend()
	SetBackend(b)
	defer SetBackend(nopBackend{})

	RecordRows("job1", "read", 0)
	RecordRows("job1", "read", -5)
	if got := b.counters["xtab_rows_total"]; got != 0 {
		t.Fatalf("rows counter = %v, want 0", got)
	}
	RecordRows("job1", "read", 42)
	if got := b.counters["xtab_rows_total"]; got != 42 {
		t.Fatalf("rows counter = %v, want 42", got)
	}
}

func TestSetBackend_NilKeepsExisting(t *testing.T) {
	b := newCaptureBackend()
	SetBackend(b)
	defer SetBackend(nopBackend{})

	SetBackend(nil)
	RecordRows("job1", "read", 1)
	if got := b.counters["xtab_rows_total"]; got != 1 {
		t.Fatalf("rows counter = %v, want 1 (nil must not replace backend)", got)
	}
	if err := Flush(); err != nil || b.flushed != 1 {
		t.Fatalf("Flush = (%v, flushed=%d), want (nil, 1)", err, b.flushed)
	}
}
