// Package kafka publishes extraction rows to a topic so downstream
// consumers can ingest the same table the CSV sink writes.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/climate-raster-etl/internal/config"
	"github.com/couchcryptid/climate-raster-etl/internal/domain"
)

// Writer produces one message per extracted point. It implements
// pipeline.RowSink.
type Writer struct {
	writer   *kafkago.Writer
	logger   *slog.Logger
	variable domain.VariableKind
	months   []domain.MonthKey
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger, variable: cfg.Variable}
}

// Begin records the month labels used to key the series entries.
func (w *Writer) Begin(months []domain.MonthKey) error {
	w.months = months
	return nil
}

// WriteRow serializes and publishes one point's record.
func (w *Writer) WriteRow(ctx context.Context, row domain.OutputRow) error {
	msg, err := w.serializeToMessage(row)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// rowMessage is the wire form of one extracted point. Null samples are
// encoded as JSON null, matching the empty cells of the CSV output.
type rowMessage struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	ObservationDate string       `json:"observation_date"`
	RasterRow       int          `json:"raster_row"`
	RasterCol       int          `json:"raster_col"`
	Series          []monthValue `json:"series"`
	MatchValue      *float64     `json:"match_value"`
}

type monthValue struct {
	Month string   `json:"month"`
	Value *float64 `json:"value"`
}

func sampleValue(s domain.Sample) *float64 {
	if !s.Valid {
		return nil
	}
	v := s.Value
	return &v
}

// serializeToMessage marshals an OutputRow into a Kafka message keyed by
// point ID.
func (w *Writer) serializeToMessage(row domain.OutputRow) (kafkago.Message, error) {
	if len(row.Series) != len(w.months) {
		return kafkago.Message{}, fmt.Errorf("row for point %q has %d series values, want %d", row.ID, len(row.Series), len(w.months))
	}

	series := make([]monthValue, len(row.Series))
	for i, s := range row.Series {
		series[i] = monthValue{Month: w.months[i].String(), Value: sampleValue(s)}
	}

	data, err := json.Marshal(rowMessage{
		ID:              row.ID,
		Name:            row.Name,
		ObservationDate: row.RawDate,
		RasterRow:       row.Row,
		RasterCol:       row.Col,
		Series:          series,
		MatchValue:      sampleValue(row.Matched),
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize row: %w", err)
	}

	return kafkago.Message{
		Key:   []byte(row.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "variable", Value: []byte(w.variable)},
			{Key: "run_date", Value: []byte(domain.RunDate())},
		},
	}, nil
}
