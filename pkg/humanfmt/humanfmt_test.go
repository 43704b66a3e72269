package humanfmt

import (
	"testing"
	"time"
)

func TestBytes(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0 B"},
		{240, "240 B"},
		{1023, "1023 B"},
		{3600, "3.52 KiB"},
		{1048576, "1.00 MiB"},
		{1572864, "1.50 MiB"},
		{1073741824, "1.00 GiB"},
		{1649267441664, "1.50 TiB"},
		{-100, "-100 B"},
	}

	for _, tt := range tests {
		if got := Bytes(tt.input); got != tt.want {
			t.Errorf("Bytes(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
	if got := BytesUint64(1 << 30); got != "1.00 GiB" {
		t.Errorf("BytesUint64(1<<30) = %q", got)
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, "0ns"},
		{500 * time.Nanosecond, "500ns"},
		{500 * time.Microsecond, "500.0µs"},
		{4 * time.Millisecond, "4.0ms"},
		{1230 * time.Millisecond, "1.23s"},
		{60 * time.Second, "1m"},
		{90 * time.Second, "1m30s"},
		{3600 * time.Second, "1h"},
		{8100 * time.Second, "2h15m"},
	}

	for _, tt := range tests {
		if got := Duration(tt.input); got != tt.want {
			t.Errorf("Duration(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestThroughput(t *testing.T) {
	tests := []struct {
		bytes int64
		d     time.Duration
		want  string
	}{
		{512, time.Second, "512 B/s"},
		{100 * MiB, time.Second, "100.00 MiB/s"},
		{100 * MiB, 2 * time.Second, "50.00 MiB/s"},
		{3 * GiB, time.Second, "3.00 GiB/s"},
		{1, 0, "∞"},
	}

	for _, tt := range tests {
		if got := Throughput(tt.bytes, tt.d); got != tt.want {
			t.Errorf("Throughput(%d, %v) = %q, want %q", tt.bytes, tt.d, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.00K"},
		{25000, "25.00K"},
		{1500000, "1.50M"},
		{2000000000, "2.00B"},
		{-5, "-5"},
	}

	for _, tt := range tests {
		if got := Count(tt.input); got != tt.want {
			t.Errorf("Count(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		n    int64
		d    time.Duration
		want string
	}{
		{500, time.Second, "500 traces/s"},
		{25000, 2 * time.Second, "12.50K traces/s"},
		{10, 0, "∞ traces/s"},
	}

	for _, tt := range tests {
		if got := Rate(tt.n, tt.d, "traces"); got != tt.want {
			t.Errorf("Rate(%d, %v) = %q, want %q", tt.n, tt.d, got, tt.want)
		}
	}
}

func TestSampleInterval(t *testing.T) {
	tests := []struct {
		us   int32
		want string
	}{
		{4000, "4.0ms (250 Hz)"},
		{2000, "2.0ms (500 Hz)"},
		{1000, "1.0ms (1000 Hz)"},
		{3000, "3.0ms (333.3 Hz)"},
		{0, "unset"},
		{-1, "unset"},
	}

	for _, tt := range tests {
		if got := SampleInterval(tt.us); got != tt.want {
			t.Errorf("SampleInterval(%d) = %q, want %q", tt.us, got, tt.want)
		}
	}
}

func BenchmarkBytes(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Bytes(int64(i) * 3600)
	}
}

func BenchmarkRate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Rate(int64(i), time.Second, "traces")
	}
}
