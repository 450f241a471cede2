package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/tomonatu8/envy-free-matching/allocation"
)

func TestNop(t *testing.T) {
	m := NewNop()
	require.NotPanics(t, func() {
		m.OnRound(1, 2)
		m.OnMatch(0, time.Millisecond)
		m.OnClaim(allocation.Claim{})
		m.ObserveTrial(time.Second, true, nil)
	})
}

func TestPrometheus_Observer(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.OnRound(1, 2)
	p.OnRound(2, 1)
	p.OnMatch(0, 3*time.Millisecond)
	p.OnClaim(allocation.Claim{Round: 1, Group: 0, Item: 4})
	p.OnClaim(allocation.Claim{Round: 1, Group: 1, Item: 2})
	p.OnClaim(allocation.Claim{Round: 2, Group: 0, Item: 3})

	require.Equal(t, 2.0, testutil.ToFloat64(p.rounds))
	require.Equal(t, 2.0, testutil.ToFloat64(p.claims.WithLabelValues("0")))
	require.Equal(t, 1.0, testutil.ToFloat64(p.claims.WithLabelValues("1")))
	require.Equal(t, 1, testutil.CollectAndCount(p.matchLatency))
}

func TestPrometheus_Trials(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "")

	p.ObserveTrial(time.Millisecond, true, nil)
	p.ObserveTrial(time.Millisecond, false, nil)
	p.ObserveTrial(time.Millisecond, true, errors.New("boom"))

	expected := `
# HELP envysim_experiment_trials_total Finished trials by result (envy_free, envy, error).
# TYPE envysim_experiment_trials_total counter
envysim_experiment_trials_total{result="envy"} 1
envysim_experiment_trials_total{result="envy_free"} 1
envysim_experiment_trials_total{result="error"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "envysim_experiment_trials_total"))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "dump")
	p.OnRound(1, 3)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, WriteTextfile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "dump_allocation_rounds_total 1")
}
