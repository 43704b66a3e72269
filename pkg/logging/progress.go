package logging

import (
	"time"

	"github.com/eunmann/segyio/pkg/humanfmt"
	"github.com/rs/zerolog"
)

// DefaultProgressInterval is the minimum time between two progress lines.
const DefaultProgressInterval = 2 * time.Second

// ScanProgress reports progress of a sequential pass over a file whose size
// is known up front. Progress lines are rate limited to one per interval.
// It is not safe for concurrent use.
type ScanProgress struct {
	log       zerolog.Logger
	phase     string
	total     int64
	done      int64
	items     int64
	startTime time.Time
	lastLog   time.Time
	interval  time.Duration
	now       func() time.Time
}

// NewScanProgress creates a tracker for a scan of total bytes.
func NewScanProgress(log zerolog.Logger, phase string, total int64) *ScanProgress {
	now := time.Now()
	return &ScanProgress{
		log:       log,
		phase:     phase,
		total:     total,
		startTime: now,
		lastLog:   now,
		interval:  DefaultProgressInterval,
		now:       time.Now,
	}
}

// SetInterval changes the rate limit. Zero logs on every Advance.
func (p *ScanProgress) SetInterval(d time.Duration) {
	p.interval = d
}

// Advance records one item spanning n bytes and logs a progress line if the
// interval has elapsed since the previous one.
func (p *ScanProgress) Advance(n int64) {
	p.items++
	p.done += n
	now := p.now()
	if now.Sub(p.lastLog) < p.interval {
		return
	}
	p.lastLog = now
	NewCompletionEvent(p.log, "scan_progress", p.phase, now.Sub(p.startTime)).
		Count("items", p.items).
		Progress(p.done, p.total, p.ETA()).
		LogDebug("scan progress")
}

// Items returns the number of items recorded.
func (p *ScanProgress) Items() int64 { return p.items }

// BytesDone returns the number of bytes recorded.
func (p *ScanProgress) BytesDone() int64 { return p.done }

// ProgressPct returns the progress percentage (0-100).
func (p *ScanProgress) ProgressPct() float64 {
	if p.total <= 0 {
		return 100.0
	}
	return float64(p.done) * 100.0 / float64(p.total)
}

// ETA estimates the remaining time from the average byte rate so far.
func (p *ScanProgress) ETA() time.Duration {
	if p.done <= 0 || p.done >= p.total {
		return 0
	}
	elapsed := p.now().Sub(p.startTime)
	perByte := float64(elapsed) / float64(p.done)
	return time.Duration(perByte * float64(p.total-p.done))
}

// Elapsed returns time since tracking started.
func (p *ScanProgress) Elapsed() time.Duration {
	return p.now().Sub(p.startTime)
}

// CompletionEvent helps build consistent completion log events.
type CompletionEvent struct {
	log     zerolog.Logger
	event   string
	phase   string
	elapsed time.Duration
	fields  map[string]interface{}
}

// NewCompletionEvent creates a new completion event builder.
func NewCompletionEvent(log zerolog.Logger, event, phase string, elapsed time.Duration) *CompletionEvent {
	return &CompletionEvent{
		log:     log,
		event:   event,
		phase:   phase,
		elapsed: elapsed,
		fields:  make(map[string]interface{}),
	}
}

// Str adds a string field.
func (ce *CompletionEvent) Str(key, val string) *CompletionEvent {
	ce.fields[key] = val
	return ce
}

// Int adds an int field.
func (ce *CompletionEvent) Int(key string, val int) *CompletionEvent {
	ce.fields[key] = val
	return ce
}

// Int64 adds an int64 field.
func (ce *CompletionEvent) Int64(key string, val int64) *CompletionEvent {
	ce.fields[key] = val
	return ce
}

// Bool adds a bool field.
func (ce *CompletionEvent) Bool(key string, val bool) *CompletionEvent {
	ce.fields[key] = val
	return ce
}

// Bytes adds byte count with optional human-readable companion.
func (ce *CompletionEvent) Bytes(key string, bytes int64) *CompletionEvent {
	ce.fields[key] = bytes
	if IsPrettyMode() {
		ce.fields[key+"_h"] = humanfmt.Bytes(bytes)
	}
	return ce
}

// Count adds count with optional human-readable companion.
func (ce *CompletionEvent) Count(key string, n int64) *CompletionEvent {
	ce.fields[key] = n
	if IsPrettyMode() {
		ce.fields[key+"_h"] = humanfmt.Count(n)
	}
	return ce
}

// Progress adds progress fields (done, total, percentage, optional ETA).
func (ce *CompletionEvent) Progress(done, total int64, eta time.Duration) *CompletionEvent {
	ce.fields["done"] = done
	ce.fields["total"] = total
	if total > 0 {
		pct := float64(done) * 100.0 / float64(total)
		ce.fields["progress_pct"] = pct
		if IsPrettyMode() {
			ce.fields["progress_h"] = humanfmt.Bytes(done) + "/" + humanfmt.Bytes(total)
		}
	}
	if eta > 0 {
		ce.fields["eta_ms"] = eta.Milliseconds()
		if IsPrettyMode() {
			ce.fields["eta_h"] = humanfmt.Duration(eta)
		}
	}
	return ce
}

// Throughput adds throughput fields.
func (ce *CompletionEvent) Throughput(bytes int64) *CompletionEvent {
	if ce.elapsed > 0 {
		bps := float64(bytes) / ce.elapsed.Seconds()
		ce.fields["throughput_bps"] = bps
		if IsPrettyMode() {
			ce.fields["throughput_h"] = humanfmt.Throughput(bytes, ce.elapsed)
		}
	}
	return ce
}

// Rate adds an items-per-second field for n items of unit.
func (ce *CompletionEvent) Rate(unit string, n int64) *CompletionEvent {
	if ce.elapsed > 0 {
		ce.fields[unit+"_per_sec"] = float64(n) / ce.elapsed.Seconds()
		if IsPrettyMode() {
			ce.fields[unit+"_per_sec_h"] = humanfmt.Rate(n, ce.elapsed, unit)
		}
	}
	return ce
}

// Log emits the completion event.
func (ce *CompletionEvent) Log(msg string) {
	ce.emit(ce.log.Info(), msg)
}

// LogDebug emits the completion event at debug level.
func (ce *CompletionEvent) LogDebug(msg string) {
	ce.emit(ce.log.Debug(), msg)
}

func (ce *CompletionEvent) emit(e *zerolog.Event, msg string) {
	e = e.Str("event", ce.event).
		Str("phase", ce.phase).
		Int64("duration_ms", ce.elapsed.Milliseconds())

	if IsPrettyMode() {
		e = e.Str("duration_h", humanfmt.Duration(ce.elapsed))
	}

	for k, v := range ce.fields {
		e = e.Interface(k, v)
	}

	e.Msg(msg)
}

// PhaseComplete logs a phase completion event.
func PhaseComplete(log zerolog.Logger, phase string, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "phase_completed", phase, elapsed)
}

// FileCreated logs a file creation completion event.
func FileCreated(log zerolog.Logger, phase string, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "file_created", phase, elapsed)
}
