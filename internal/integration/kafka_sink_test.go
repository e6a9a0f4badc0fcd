//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkaadapter "github.com/couchcryptid/climate-raster-etl/internal/adapter/kafka"
	"github.com/couchcryptid/climate-raster-etl/internal/config"
	"github.com/couchcryptid/climate-raster-etl/internal/domain"
	"github.com/couchcryptid/climate-raster-etl/internal/observability"
	"github.com/couchcryptid/climate-raster-etl/internal/pipeline"
	"github.com/couchcryptid/climate-raster-etl/internal/raster"
)

const testSinkTopic = "test-point-extracts"

// sliceSource serves a fixed point set, standing in for the vector layer.
type sliceSource struct {
	points []domain.Point
}

func (s *sliceSource) ReadPoints(_ context.Context) ([]domain.Point, error) {
	return s.points, nil
}

// rowMessage mirrors the sink's wire format for deserialization.
type rowMessage struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	ObservationDate string  `json:"observation_date"`
	RasterRow       int     `json:"raster_row"`
	RasterCol       int     `json:"raster_col"`
	Series          []struct {
		Month string   `json:"month"`
		Value *float64 `json:"value"`
	} `json:"series"`
	MatchValue *float64 `json:"match_value"`
}

// TestKafkaSinkEndToEnd runs the extraction pipeline against real Kafka and
// verifies that every point arrives on the topic with its series intact.
func TestKafkaSinkEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testSinkTopic,
		Variable:     domain.Temperature,
	}

	// A 2x2 grid covering three months, band b holding 273.15+b everywhere.
	bands := make([][]float64, 3)
	for b := range bands {
		v := 273.15 + float64(b+1)
		bands[b] = []float64{v, v, v, v}
	}
	gt := raster.GeoTransform{10.0, 1.0, 0, 50.0, 0, -1.0}
	stack, err := raster.NewStack(gt, 2, 2, -9999, true, bands)
	require.NoError(t, err)

	calendar := domain.NewBandCalendar(domain.MonthKey{Year: 2021, Month: time.January}, stack.Bands())
	metrics := observability.NewMetricsForTesting()
	engine := pipeline.NewEngine(stack, calendar, domain.Temperature, domain.DateFormatAuto, discardLogger(), metrics)

	source := &sliceSource{points: []domain.Point{
		{ID: "p1", Name: "Station A", RawDate: "2021-02-14", X: 10.5, Y: 49.5},
		{ID: "p2", Name: "Station B", RawDate: "not a date", X: 11.5, Y: 48.5},
	}}

	sink := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = sink.Close() })

	p := pipeline.New(source, engine, []pipeline.RowSink{sink}, discardLogger(), metrics)
	require.NoError(t, p.Run(ctx))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make(map[string]rowMessage, 2)
	for len(received) < 2 {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from sink topic")

		var row rowMessage
		require.NoError(t, json.Unmarshal(msg.Value, &row))
		received[string(msg.Key)] = row

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "temperature", headers["variable"])
		assert.NotEmpty(t, headers["run_date"])
	}

	p1, ok := received["p1"]
	require.True(t, ok, "expected message keyed p1")
	assert.Equal(t, "Station A", p1.Name)
	assert.Equal(t, "2021-02-14", p1.ObservationDate)
	require.Len(t, p1.Series, 3)
	assert.Equal(t, "2021-01", p1.Series[0].Month)
	require.NotNil(t, p1.MatchValue)
	assert.InDelta(t, 2.0, *p1.MatchValue, 1e-9)

	p2, ok := received["p2"]
	require.True(t, ok, "expected message keyed p2")
	assert.Nil(t, p2.MatchValue, "unparseable date leaves the matched value null")
	require.Len(t, p2.Series, 3)
	for _, s := range p2.Series {
		require.NotNil(t, s.Value, "series is still populated")
	}
}
