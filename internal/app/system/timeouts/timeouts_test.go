package timeouts_test

import (
	"testing"
	"time"

	"github.com/dalemusser/adarshgram/internal/app/system/timeouts"
)

func TestDefaults(t *testing.T) {
	timeouts.Reset()
	want := timeouts.Config{
		Ping:   timeouts.DefaultPing,
		Short:  timeouts.DefaultShort,
		Medium: timeouts.DefaultMedium,
		Long:   timeouts.DefaultLong,
	}
	if got := timeouts.Current(); got != want {
		t.Errorf("Current: got %+v, want %+v", got, want)
	}
}

func TestConfigure_IgnoresZero(t *testing.T) {
	timeouts.Reset()
	t.Cleanup(timeouts.Reset)

	timeouts.Configure(timeouts.Config{Short: 7 * time.Second})

	if timeouts.Short() != 7*time.Second {
		t.Errorf("Short: got %v", timeouts.Short())
	}
	if timeouts.Ping() != timeouts.DefaultPing || timeouts.Long() != timeouts.DefaultLong {
		t.Error("unset values should keep their defaults")
	}
}

func TestConfigureFromEnv(t *testing.T) {
	timeouts.Reset()
	t.Cleanup(timeouts.Reset)
	t.Setenv("ADARSHGRAM_TIMEOUT_PING", "750ms")
	t.Setenv("ADARSHGRAM_TIMEOUT_MEDIUM", "20s")
	t.Setenv("ADARSHGRAM_TIMEOUT_LONG", "not-a-duration")
	t.Setenv("ADARSHGRAM_TIMEOUT_SHORT", "-1s")

	if n := timeouts.ConfigureFromEnv(); n != 2 {
		t.Errorf("configured: got %d, want 2", n)
	}
	if timeouts.Ping() != 750*time.Millisecond {
		t.Errorf("Ping: got %v", timeouts.Ping())
	}
	if timeouts.Medium() != 20*time.Second {
		t.Errorf("Medium: got %v", timeouts.Medium())
	}
	if timeouts.Long() != timeouts.DefaultLong || timeouts.Short() != timeouts.DefaultShort {
		t.Error("invalid values should be ignored")
	}
}
