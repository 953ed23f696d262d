package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/trace"
)

func TestTraceHandlerAddsIDs(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, "dev")

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	log.InfoContext(ctx, "reservation.created", "room_id", 1)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log: %v (%s)", err, buf.String())
	}
	if rec["trace_id"] != traceID.String() || rec["span_id"] != spanID.String() {
		t.Fatalf("missing trace ids: %v", rec)
	}

	if rec["service"] != "roomhub" || rec["env"] != "dev" {
		t.Fatalf("missing base attrs: %v", rec)
	}

	buf.Reset()
	log.InfoContext(ContextWithRequestID(context.Background(), "req-1"), "reservation.cancelled")
	if !bytes.Contains(buf.Bytes(), []byte(`"request_id":"req-1"`)) {
		t.Fatalf("missing request id: %s", buf.String())
	}

	buf.Reset()
	log.InfoContext(context.Background(), "plain")
	if bytes.Contains(buf.Bytes(), []byte("trace_id")) {
		t.Fatalf("no span, no trace id: %s", buf.String())
	}
}

func TestClassifyDBErr(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: &pgconn.PgError{Code: "23505"}, want: "unique_violation"},
		{err: fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23514"}), want: "check_violation"},
		{err: &pgconn.PgError{Code: "22P02"}, want: "pg_22P02"},
		{err: &pgconn.PgError{Code: "55P03"}, want: "lock_not_available"},
		{err: context.DeadlineExceeded, want: "timeout"},
		{err: fmt.Errorf("list rooms: %w", context.Canceled), want: "canceled"},
		{err: errors.New("connection refused"), want: "connection"},
		{err: errors.New("boom"), want: "unknown"},
	}

	for _, tt := range tests {
		if got := classifyDBErr(tt.err); got != tt.want {
			t.Fatalf("%v: got %s, want %s", tt.err, got, tt.want)
		}
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestObserveDBAndReservationOutcomes(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	_ = p.ObserveDB("rooms.list", func() error { return nil })
	_ = p.ObserveDB("rooms.list", func() error { return &pgconn.PgError{Code: "23505"} })

	if got := counterValue(t, p.DbErrorsTotal.WithLabelValues("rooms.list", "unique_violation")); got != 1 {
		t.Fatalf("db errors = %v", got)
	}

	err := p.ObserveDB("rooms.get", func() error { return pgx.ErrNoRows })
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("error must pass through, got %v", err)
	}
	if got := counterValue(t, p.DbErrorsTotal.WithLabelValues("rooms.get", "unknown")); got != 0 {
		t.Fatalf("a missing row is not a db error, counted %v", got)
	}

	p.ObserveReservation("book", "created")
	p.ObserveReservation("book", "created")
	if got := counterValue(t, p.ReservationOutcomes.WithLabelValues("book", "created")); got != 2 {
		t.Fatalf("outcomes = %v", got)
	}

	var nilProm *Prom
	nilProm.ObserveReservation("book", "created")
	if err := nilProm.ObserveDB("rooms.list", func() error { return nil }); err != nil {
		t.Fatalf("nil prom: %v", err)
	}
}
