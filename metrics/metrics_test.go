package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_RecordsOnOwnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLayout(reg)

	m.ObserveTick(4, 3)
	m.ObserveTick(2, 1)
	m.ObserveRebind(nil)
	m.ObserveRebind(errors.New("missing: x"))
	m.ObserveAlpha(0.25)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Ticks))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.LinkUpdates))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cursor))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rebinds.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rebinds.WithLabelValues("error")))
	assert.Equal(t, 0.25, testutil.ToFloat64(m.Alpha))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 5)
}

func TestLayout_SeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		NewLayout(prometheus.NewRegistry())
		NewLayout(prometheus.NewRegistry())
	})
}

func TestLayout_NilRecordsNothing(t *testing.T) {
	var m *Layout
	assert.NotPanics(t, func() {
		m.ObserveTick(1, 1)
		m.ObserveRebind(nil)
		m.ObserveAlpha(1)
	})
}
