package membudget

import (
	"testing"

	"github.com/eunmann/segyio/pkg/sysmem"
)

func TestBudgetBasic(t *testing.T) {
	budget := New(Config{
		TotalBytes: 1000,
		Source:     BudgetSourceCLI,
	})

	if budget.Total() != 1000 {
		t.Errorf("Total() = %d, want 1000", budget.Total())
	}
	if budget.Source() != BudgetSourceCLI {
		t.Errorf("Source() = %s, want %s", budget.Source(), BudgetSourceCLI)
	}
	if !budget.Fits(1000) || budget.Fits(1001) {
		t.Error("Fits should accept exactly the total and nothing more")
	}
}

func TestFromRAM(t *testing.T) {
	b := fromRAM(sysmem.Result{TotalBytes: 16 << 30, Reliable: true})
	if b.Total() != 2<<30 {
		t.Errorf("Total() = %d, want %d", b.Total(), uint64(2<<30))
	}
	if b.Source() != BudgetSourceAuto {
		t.Errorf("Source() = %s, want %s", b.Source(), BudgetSourceAuto)
	}

	b = fromRAM(sysmem.Result{TotalBytes: sysmem.DefaultMemoryBytes})
	if b.Total() != DefaultBudgetBytes || b.Source() != BudgetSourceDefault {
		t.Errorf("unreliable detection: got %d (%s)", b.Total(), b.Source())
	}
}

func TestNewFromSystemRAM(t *testing.T) {
	budget := NewFromSystemRAM()
	if budget.Total() == 0 {
		t.Error("budget should never be zero")
	}
	if budget.Source() != BudgetSourceAuto && budget.Source() != BudgetSourceDefault {
		t.Errorf("Source = %s, want auto or default", budget.Source())
	}
}

func TestResolvePriority(t *testing.T) {
	t.Setenv(EnvVar, "64MiB")

	b, err := Resolve("1GiB")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if b.Total() != 1<<30 || b.Source() != BudgetSourceCLI {
		t.Errorf("flag value: got %d (%s)", b.Total(), b.Source())
	}

	b, err = Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if b.Total() != 64<<20 || b.Source() != BudgetSourceEnv {
		t.Errorf("env value: got %d (%s)", b.Total(), b.Source())
	}

	t.Setenv(EnvVar, "lots")
	if _, err := Resolve(""); err == nil {
		t.Error("expected error for malformed env value")
	}
	if _, err := Resolve("12XB"); err == nil {
		t.Error("expected error for malformed flag value")
	}
}

func TestParseHumanSize(t *testing.T) {
	tests := []struct {
		input   string
		want    uint64
		wantErr bool
	}{
		{"1024", 1024, false},
		{"100B", 100, false},
		{"1KB", 1000, false},
		{"1KiB", 1024, false},
		{"1K", 1024, false},
		{"1MB", 1000000, false},
		{"1MiB", 1024 * 1024, false},
		{"1M", 1024 * 1024, false},
		{"1GB", 1000000000, false},
		{"1GiB", 1024 * 1024 * 1024, false},
		{"4GiB", 4 * 1024 * 1024 * 1024, false},
		{"0.5GiB", 512 * 1024 * 1024, false},
		{"", 0, true},
		{"XYZ", 0, true},
		{"100XB", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseHumanSize(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseHumanSize(%q) should error", tt.input)
			}
		} else {
			if err != nil {
				t.Errorf("ParseHumanSize(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseHumanSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		}
	}
}
