package dispatcher

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/cabinet-medical/cabinet-console/internal/domain/event"
)

// mockLogger implements Logger for testing
type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func (m *mockLogger) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errors)
}

func TestDispatch_RunsHandlersInOrder(t *testing.T) {
	d := NewDispatcher()
	var order []string

	d.SubscribeNamed(event.TypeSupplyAdded, "first", func(ctx context.Context, evt *event.Event) error {
		order = append(order, "first:"+evt.RecordID)
		return nil
	})
	d.SubscribeNamed(event.TypeSupplyAdded, "second", func(ctx context.Context, evt *event.Event) error {
		order = append(order, "second:"+evt.RecordID)
		return nil
	})
	d.SubscribeNamed(event.TypeAbsenceAdded, "other", func(ctx context.Context, evt *event.Event) error {
		t.Fatal("handler for another type must not run")
		return nil
	})

	if err := d.Dispatch(context.Background(), event.NewEvent(event.TypeSupplyAdded, "S-1", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "first:S-1,second:S-1"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("order = %q, want %q", got, want)
	}
}

func TestDispatch_FailureDoesNotStopLaterHandlers(t *testing.T) {
	d := NewDispatcher()
	boom := errors.New("boom")
	bang := errors.New("bang")
	called := false

	d.SubscribeNamed(event.TypeAbsenceStatusChanged, "audit-log", func(ctx context.Context, evt *event.Event) error {
		return boom
	})
	d.SubscribeNamed(event.TypeAbsenceStatusChanged, "status-metrics", func(ctx context.Context, evt *event.Event) error {
		called = true
		return nil
	})
	d.SubscribeNamed(event.TypeAbsenceStatusChanged, "webhook", func(ctx context.Context, evt *event.Event) error {
		return bang
	})

	err := d.Dispatch(context.Background(), event.NewEvent(event.TypeAbsenceStatusChanged, "A-1", nil))
	if !called {
		t.Error("handler after a failing one must still run")
	}
	if !errors.Is(err, boom) || !errors.Is(err, bang) {
		t.Fatalf("expected both failures joined, got %v", err)
	}
	if !strings.Contains(err.Error(), "audit-log") || !strings.Contains(err.Error(), "webhook") {
		t.Errorf("error should name the failing handlers: %v", err)
	}
}

func TestDispatch_RecoversPanics(t *testing.T) {
	d := NewDispatcher()
	d.SubscribeNamed(event.TypeExportGenerated, "panicky", func(ctx context.Context, evt *event.Event) error {
		panic("nil map")
	})

	err := d.Dispatch(context.Background(), event.NewEvent(event.TypeExportGenerated, "", nil))
	if err == nil || !strings.Contains(err.Error(), "handler panic") {
		t.Fatalf("expected recovered panic error, got %v", err)
	}
}

func TestPublish_LogsErrors(t *testing.T) {
	logger := &mockLogger{}
	d := NewDispatcher(WithLogger(logger))
	d.SubscribeNamed(event.TypeAbsenceStatusChanged, "failing", func(ctx context.Context, evt *event.Event) error {
		return errors.New("down")
	})

	d.Publish(context.Background(), event.NewEvent(event.TypeAbsenceStatusChanged, "A-1", nil))

	if logger.ErrorCount() != 1 {
		t.Errorf("expected 1 logged error, got %d", logger.ErrorCount())
	}
}

func TestSubscribeAll(t *testing.T) {
	d := NewDispatcher()
	seen := map[event.Type]int{}
	d.SubscribeAll("audit", func(ctx context.Context, evt *event.Event) error {
		seen[evt.Type]++
		return nil
	})

	for _, typ := range event.Types() {
		d.Publish(context.Background(), event.NewEvent(typ, "", nil))
		if got := d.ListHandlers(typ); len(got) != 1 || got[0].Name != "audit" || got[0].Handler != nil {
			t.Errorf("ListHandlers(%s) = %+v", typ, got)
		}
	}
	if len(seen) != len(event.Types()) {
		t.Errorf("expected every type to reach the handler, got %v", seen)
	}
}

func TestClose(t *testing.T) {
	d := NewDispatcher()
	if err := d.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := d.Close(); err == nil {
		t.Error("second close should fail")
	}
	if err := d.Dispatch(context.Background(), event.NewEvent(event.TypeSupplyAdded, "S-1", nil)); err == nil {
		t.Error("dispatch after close should fail")
	}
}
