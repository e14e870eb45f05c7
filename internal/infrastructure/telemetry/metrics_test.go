package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/minesafe/rockfall/internal/infrastructure/telemetry"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := telemetry.NewMetrics(provider.Meter("test"))
	require.NoError(t, err)
	ctx := context.Background()

	m.AssessmentRecorded(ctx, "weighted", "Medium", 55)
	m.AssessmentRecorded(ctx, "weighted", "Medium", 60)
	m.AssessmentRecorded(ctx, "selection", "High", 91)
	m.AlertSettled(ctx, "sms", "sent")
	m.AlertSettled(ctx, "sms", "failed")
	m.SweepCompleted(ctx, 3, 1)

	data := collect(t, reader)

	t.Run("assessments by model and level", func(t *testing.T) {
		sum, ok := data["rockfall_assessments_total"].(metricdata.Sum[int64])
		require.True(t, ok)
		counts := map[attribute.Distinct]int64{}
		for _, dp := range sum.DataPoints {
			counts[dp.Attributes.Equivalent()] = dp.Value
		}
		medium := attribute.NewSet(attribute.String("model", "weighted"), attribute.String("level", "Medium"))
		assert.Equal(t, int64(2), counts[medium.Equivalent()])
		assert.Len(t, sum.DataPoints, 2)
	})

	t.Run("probability histogram", func(t *testing.T) {
		hist, ok := data["rockfall_risk_probability"].(metricdata.Histogram[int64])
		require.True(t, ok)
		var total uint64
		for _, dp := range hist.DataPoints {
			total += dp.Count
		}
		assert.Equal(t, uint64(3), total)
	})

	t.Run("alerts by status", func(t *testing.T) {
		sum, ok := data["rockfall_alerts_total"].(metricdata.Sum[int64])
		require.True(t, ok)
		assert.Len(t, sum.DataPoints, 2)
	})

	t.Run("sweep totals", func(t *testing.T) {
		mines, ok := data["rockfall_sweep_mines_total"].(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, mines.DataPoints, 1)
		assert.Equal(t, int64(3), mines.DataPoints[0].Value)

		failed, ok := data["rockfall_sweep_failures_total"].(metricdata.Sum[int64])
		require.True(t, ok)
		assert.Equal(t, int64(1), failed.DataPoints[0].Value)
	})
}
