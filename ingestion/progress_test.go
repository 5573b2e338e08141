package ingestion

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Basic(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1)

	tracker.Start(4)
	tracker.Increment(1)
	tracker.Increment(1)
	tracker.Increment(2)

	assert.Greater(t, tracker.Elapsed(), time.Duration(0))

	output := buf.String()
	assert.Contains(t, output, "Batches: 4/4")
	assert.Contains(t, output, "100.0%")
}

func TestProgressTracker_FinishReportsCurrent(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10)

	tracker.Start(4)
	tracker.Increment(3)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "3/4", "an interrupted run reports where it stopped")
	assert.Contains(t, output, "75.0%")
	assert.True(t, strings.HasSuffix(output, "\n"), "finish should print newline")
}

func TestProgressTracker_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1)

	tracker.Start(0)
	tracker.Finish()

	assert.Contains(t, buf.String(), "0/0")
}

func TestProgressTracker_IncrementBeyondTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1)

	tracker.Start(3)
	tracker.Increment(10)

	assert.Contains(t, buf.String(), "3/3", "should not exceed total")
}

func TestProgressTracker_Rate(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1)

	tracker.Start(10)
	time.Sleep(20 * time.Millisecond)
	tracker.Increment(1)
	tracker.Finish()

	assert.Contains(t, buf.String(), "batches/s")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1)

	tracker.Increment(1)
	tracker.Finish()

	assert.Equal(t, "", buf.String(), "should have no output when not started")
}

func TestProgressTracker_ReportInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 5)

	tracker.Start(20)

	tracker.Increment(4)
	assert.Equal(t, "", buf.String(), "should not print under interval")

	tracker.Increment(1)
	assert.Contains(t, buf.String(), "5/20", "should print at interval")

	buf.Reset()
	tracker.Increment(2)
	assert.Equal(t, "", buf.String())
}

func TestNoProgress(t *testing.T) {
	var p Progress = noProgress{}
	p.Start(3)
	p.Increment(1)
	p.Finish()
}
