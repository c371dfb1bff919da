package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_RegistersOnceAndIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()

	require.NoError(t, Init(reg))
	require.NoError(t, Init(reg))

	ChatReplies.WithLabelValues("pension").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(ChatReplies.WithLabelValues("pension")), 1.0)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
