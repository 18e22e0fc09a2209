package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestDispatch_Counters(t *testing.T) {
	d := NewDispatch()

	d.Assigned("auto")
	d.Assigned("auto")
	d.Assigned("manual")
	d.Rejected()
	d.Failed()
	d.Transition("DELIVERED")

	require.Equal(t, 2.0, testutil.ToFloat64(d.Assignments.WithLabelValues("auto")))
	require.Equal(t, 1.0, testutil.ToFloat64(d.Assignments.WithLabelValues("manual")))
	require.Equal(t, 1.0, testutil.ToFloat64(d.Rejections))
	require.Equal(t, 1.0, testutil.ToFloat64(d.Failures))
	require.Equal(t, 1.0, testutil.ToFloat64(d.Transitions.WithLabelValues("DELIVERED")))

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(d.Assignments))
	require.Len(t, d.Collectors(), 4)
}

func TestDispatch_NilIsNoop(t *testing.T) {
	var d *Dispatch
	require.NotPanics(t, func() {
		d.Assigned("auto")
		d.Rejected()
		d.Failed()
		d.Transition("ASSIGNED")
	})
}

func TestRegistrySize(t *testing.T) {
	n := 3
	g := NewRegistrySize(func() int { return n })
	require.Equal(t, 3.0, testutil.ToFloat64(g))

	n = 5
	require.Equal(t, 5.0, testutil.ToFloat64(g))
}
