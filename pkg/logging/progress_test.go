package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeClock advances by step on every call.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func TestScanProgress_Basic(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	p := NewScanProgress(log, "index_build", 1000)
	p.Advance(240)
	p.Advance(260)

	if p.Items() != 2 {
		t.Errorf("expected items=2, got %d", p.Items())
	}
	if p.BytesDone() != 500 {
		t.Errorf("expected bytes=500, got %d", p.BytesDone())
	}
	if pct := p.ProgressPct(); pct != 50.0 {
		t.Errorf("expected progress 50%%, got %.1f%%", pct)
	}
}

func TestScanProgress_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewScanProgress(zerolog.New(&buf), "index_build", 0)

	if pct := p.ProgressPct(); pct != 100.0 {
		t.Errorf("expected 100%% for zero total, got %.1f%%", pct)
	}
	if eta := p.ETA(); eta != 0 {
		t.Errorf("expected 0 ETA for zero total, got %v", eta)
	}
}

func TestScanProgress_ETA(t *testing.T) {
	var buf bytes.Buffer
	p := NewScanProgress(zerolog.New(&buf), "index_build", 1000)
	clock := &fakeClock{t: p.startTime, step: 0}
	p.now = clock.now

	clock.t = p.startTime.Add(100 * time.Millisecond)
	p.done = 250
	eta := p.ETA()
	// 250 bytes in 100ms leaves 750 bytes, ~300ms
	if eta < 290*time.Millisecond || eta > 310*time.Millisecond {
		t.Errorf("expected ETA ~300ms, got %v", eta)
	}
}

func TestScanProgress_RateLimited(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	p := NewScanProgress(log, "index_build", 100)
	clock := &fakeClock{t: p.startTime, step: time.Second}
	p.now = clock.now
	p.SetInterval(3 * time.Second)

	for i := 0; i < 6; i++ {
		p.Advance(10)
	}

	lines := strings.Count(buf.String(), "\n")
	if lines != 2 {
		t.Errorf("expected 2 progress lines, got %d: %s", lines, buf.String())
	}
	if !strings.Contains(buf.String(), `"event":"scan_progress"`) {
		t.Errorf("expected scan_progress event, got: %s", buf.String())
	}
}

func TestCompletionEvent_BasicFields(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	SetPrettyMode(false)

	ce := NewCompletionEvent(log, "test_event", "test_phase", 500*time.Millisecond)
	ce.Str("key", "value").
		Int("count", 42).
		Int64("big_count", 1000000).
		Bool("reused", true).
		Log("test message")

	output := buf.String()

	if !strings.Contains(output, `"event":"test_event"`) {
		t.Errorf("expected event field, got: %s", output)
	}
	if !strings.Contains(output, `"phase":"test_phase"`) {
		t.Errorf("expected phase field, got: %s", output)
	}
	if !strings.Contains(output, `"duration_ms":500`) {
		t.Errorf("expected duration_ms field, got: %s", output)
	}
	if !strings.Contains(output, `"key":"value"`) {
		t.Errorf("expected key field, got: %s", output)
	}
	if !strings.Contains(output, `"count":42`) {
		t.Errorf("expected count field, got: %s", output)
	}
	if !strings.Contains(output, `"reused":true`) {
		t.Errorf("expected reused field, got: %s", output)
	}
}

func TestCompletionEvent_BytesAndCounts(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	SetPrettyMode(true)
	defer SetPrettyMode(false)

	ce := NewCompletionEvent(log, "test_event", "test_phase", 1*time.Second)
	ce.Bytes("size", 1073741824). // 1 GiB
					Count("traces", 1500000).
					Log("test message")

	output := buf.String()

	if !strings.Contains(output, `"size":1073741824`) {
		t.Errorf("expected raw size field, got: %s", output)
	}
	if !strings.Contains(output, `"traces":1500000`) {
		t.Errorf("expected raw traces field, got: %s", output)
	}
	if !strings.Contains(output, `"size_h":"1.00 GiB"`) {
		t.Errorf("expected human size field, got: %s", output)
	}
	if !strings.Contains(output, `"traces_h":"1.50M"`) {
		t.Errorf("expected human traces field, got: %s", output)
	}
}

func TestCompletionEvent_Progress(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	SetPrettyMode(true)
	defer SetPrettyMode(false)

	ce := NewCompletionEvent(log, "test_event", "test_phase", 1*time.Second)
	ce.Progress(50, 100, 30*time.Second).
		Log("test message")

	output := buf.String()

	if !strings.Contains(output, `"done":50`) {
		t.Errorf("expected done field, got: %s", output)
	}
	if !strings.Contains(output, `"total":100`) {
		t.Errorf("expected total field, got: %s", output)
	}
	if !strings.Contains(output, `"progress_pct":50`) {
		t.Errorf("expected progress_pct field, got: %s", output)
	}
	if !strings.Contains(output, `"eta_ms":30000`) {
		t.Errorf("expected eta_ms field, got: %s", output)
	}
	if !strings.Contains(output, `"eta_h":`) {
		t.Errorf("expected eta_h field in pretty mode, got: %s", output)
	}
}

func TestCompletionEvent_Throughput(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	SetPrettyMode(true)
	defer SetPrettyMode(false)

	ce := NewCompletionEvent(log, "test_event", "test_phase", 1*time.Second)
	ce.Throughput(104857600). // 100 MiB in 1 second = 100 MiB/s
					Log("test message")

	output := buf.String()

	if !strings.Contains(output, `"throughput_bps":`) {
		t.Errorf("expected throughput_bps field, got: %s", output)
	}
	if !strings.Contains(output, `"throughput_h":"100.00 MiB/s"`) {
		t.Errorf("expected throughput_h field, got: %s", output)
	}
}

func TestHelperFunctions(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	SetPrettyMode(false)

	PhaseComplete(log, "index_build", 1*time.Second).
		Count("traces", 12).
		Log("phase done")

	output := buf.String()
	if !strings.Contains(output, `"event":"phase_completed"`) {
		t.Errorf("expected phase_completed event, got: %s", output)
	}

	buf.Reset()
	FileCreated(log, "catalog", 200*time.Millisecond).
		Str("path", "/tmp/x.parquet").
		Log("file written")
	if !strings.Contains(buf.String(), `"event":"file_created"`) {
		t.Errorf("expected file_created event, got: %s", buf.String())
	}
}

func TestPrettyModeFollowsInit(t *testing.T) {
	Init(false, true)
	if !IsPrettyMode() {
		t.Error("expected pretty mode after Init(human=true)")
	}
	Init(false, false)
	if IsPrettyMode() {
		t.Error("expected pretty mode off after Init(human=false)")
	}
}

func TestCompletionEvent_Rate(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	SetPrettyMode(true)
	defer SetPrettyMode(false)

	PhaseComplete(log, "index_scan", 2*time.Second).
		Rate("traces", 25000).
		Log("scan done")

	output := buf.String()
	if !strings.Contains(output, `"traces_per_sec":12500`) {
		t.Errorf("expected traces_per_sec field, got: %s", output)
	}
	if !strings.Contains(output, `"traces_per_sec_h":"12.50K traces/s"`) {
		t.Errorf("expected traces_per_sec_h field, got: %s", output)
	}

	buf.Reset()
	PhaseComplete(log, "index_scan", 0).Rate("traces", 10).Log("instant")
	if strings.Contains(buf.String(), "traces_per_sec") {
		t.Errorf("zero elapsed should omit the rate, got: %s", buf.String())
	}
}
