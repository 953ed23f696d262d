package notifications

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type fakeNotifier struct {
	calls int
	err   error
}

func (f *fakeNotifier) SendReservationNotice(ctx context.Context, _ SendReservationNoticeInput) error {
	f.calls++
	return f.err
}

func TestProtectedNotifierOpensAndRecovers(t *testing.T) {
	inner := &fakeNotifier{err: errors.New("smtp down")}
	clock := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{
		FailureThreshold: 2,
		Cooldown:         time.Minute,
	})
	n.now = func() time.Time { return clock }

	ctx := context.Background()
	in := SendReservationNoticeInput{Kind: KindReservationConfirmed}

	for i := 0; i < 2; i++ {
		if err := n.SendReservationNotice(ctx, in); err == nil {
			t.Fatalf("call %d: expected inner error", i)
		}
	}
	if n.State() != "open" {
		t.Fatalf("state = %s, want open", n.State())
	}

	if err := n.SendReservationNotice(ctx, in); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("got %v, want ErrCircuitOpen", err)
	}
	if inner.calls != 2 {
		t.Fatalf("open circuit must not reach the provider, calls=%d", inner.calls)
	}

	// cooldown elapsed: one trial call, which succeeds and closes the circuit
	clock = clock.Add(time.Minute)
	inner.err = nil

	if err := n.SendReservationNotice(ctx, in); err != nil {
		t.Fatalf("trial call: %v", err)
	}
	if n.State() != "closed" {
		t.Fatalf("state = %s, want closed", n.State())
	}
}

func TestProtectedNotifierHalfOpenFailureReopens(t *testing.T) {
	inner := &fakeNotifier{err: errors.New("still down")}
	clock := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{FailureThreshold: 1, Cooldown: time.Second})
	n.now = func() time.Time { return clock }

	ctx := context.Background()
	_ = n.SendReservationNotice(ctx, SendReservationNoticeInput{})

	clock = clock.Add(time.Second)
	_ = n.SendReservationNotice(ctx, SendReservationNoticeInput{})

	if n.State() != "open" {
		t.Fatalf("state = %s, want open", n.State())
	}
	if inner.calls != 2 {
		t.Fatalf("calls = %d, want 2", inner.calls)
	}
}

func TestProtectedNotifierIgnoresCallerCancellation(t *testing.T) {
	inner := &fakeNotifier{err: context.Canceled}

	var transitions []string
	n := NewProtectedNotifier(inner, ProtectedNotifierConfig{
		FailureThreshold: 1,
		OnStateChange: func(from, to string) {
			transitions = append(transitions, from+"->"+to)
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_ = n.SendReservationNotice(ctx, SendReservationNoticeInput{})
	if n.State() != "closed" || len(transitions) != 0 {
		t.Fatalf("caller cancellation must not trip the breaker: %s %v", n.State(), transitions)
	}

	inner.err = errors.New("provider down")
	_ = n.SendReservationNotice(context.Background(), SendReservationNoticeInput{})
	if len(transitions) != 1 || transitions[0] != "closed->open" {
		t.Fatalf("transitions = %v", transitions)
	}
}

func TestLogNotifierWritesNotice(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := n.SendReservationNotice(context.Background(), SendReservationNoticeInput{
		Kind:          KindReservationCancelled,
		Email:         "user_01@test.com",
		RoomName:      "C01",
		ReservationID: 7,
		StartDate:     time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"notification." + string(KindReservationCancelled), "user_01@test.com", "2030-01-01T08:00:00Z"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log %q missing %q", out, want)
		}
	}
}
