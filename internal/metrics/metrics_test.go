package metrics

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

type sample struct {
	kind   string // "counter" or "histogram"
	name   string
	value  float64
	labels Labels
}

// fakeBackend records every call in order.
type fakeBackend struct {
	mu      sync.Mutex
	samples []sample
	flushes int
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.samples = append(f.samples, sample{"counter", name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.samples = append(f.samples, sample{"histogram", name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return nil
}

// install swaps in a fake for the duration of the test.
func install(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	SetBackend(fb)
	t.Cleanup(Disable)
	return fb
}

/*
TestRecorders drives every Record* helper and checks the emitted samples.
Non-positive deltas never reach the backend; RecordStep always emits a
counter and a duration with the same labels.
*/
func TestRecorders(t *testing.T) {
	tests := []struct {
		name   string
		record func()
		want   []sample
	}{
		{
			"step success",
			func() { RecordStep("tokyo", "period", nil, 1500*time.Millisecond) },
			[]sample{
				{"counter", StepTotal, 1, Labels{"job": "tokyo", "step": "period", "status": "success"}},
				{"histogram", StepDuration, 1.5, Labels{"job": "tokyo", "step": "period", "status": "success"}},
			},
		},
		{
			"step failure",
			func() { RecordStep("tokyo", "ratio", errors.New("boom"), 0) },
			[]sample{
				{"counter", StepTotal, 1, Labels{"job": "tokyo", "step": "ratio", "status": "failure"}},
				{"histogram", StepDuration, 0, Labels{"job": "tokyo", "step": "ratio", "status": "failure"}},
			},
		},
		{
			"rows",
			func() { RecordRow("tokyo", "read", 3); RecordRow("tokyo", "skipped", 0) },
			[]sample{{"counter", RowsTotal, 3, Labels{"job": "tokyo", "kind": "read"}}},
		},
		{
			"batches",
			func() { RecordBatches("tokyo", 2); RecordBatches("tokyo", -1) },
			[]sample{{"counter", BatchesTotal, 2, Labels{"job": "tokyo"}}},
		},
		{
			"missing",
			func() { RecordMissing("tokyo", "Period", 4); RecordMissing("tokyo", "Area", 0) },
			[]sample{{"counter", MissingCells, 4, Labels{"job": "tokyo", "column": "Period"}}},
		},
		{
			"aggregate",
			func() { RecordAggregate("tokyo", "Municipality", 6); RecordAggregate("tokyo", "Municipality", 0) },
			[]sample{{"counter", AggregateColumn, 6, Labels{"job": "tokyo", "key": "Municipality"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := install(t)
			tt.record()
			if !reflect.DeepEqual(fb.samples, tt.want) {
				t.Fatalf("samples = %+v\nwant %+v", fb.samples, tt.want)
			}
		})
	}
}

func TestSetBackendNilAndFlush(t *testing.T) {
	fb := install(t)
	SetBackend(nil)
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if fb.flushes != 1 {
		t.Fatalf("flushes = %d; SetBackend(nil) must keep the installed backend", fb.flushes)
	}
}

func TestDisable(t *testing.T) {
	fb := install(t)
	Disable()
	RecordRow("j", "read", 1)
	if len(fb.samples) != 0 {
		t.Fatalf("disabled backend still received %d samples", len(fb.samples))
	}
}
