package wizard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_RunsOnlyLastTrigger(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var runs atomic.Int32
	var last atomic.Value
	for _, q := range []string{"j", "ju", "jua", "juan"} {
		d.Trigger(context.Background(), func(context.Context) {
			runs.Add(1)
			last.Store(q)
		})
		time.Sleep(5 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.EqualValues(t, 1, runs.Load())
	assert.Equal(t, "juan", last.Load())
}

func TestDebouncer_NewTriggerCancelsInFlight(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	started := make(chan struct{})
	cancelled := make(chan struct{})
	d.Trigger(context.Background(), func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	})
	<-started
	d.Trigger(context.Background(), func(context.Context) {})

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("in-flight run was not cancelled")
	}
}

func TestWizardSearch_OneRequestPerSettledQuery(t *testing.T) {
	dir := &fakeDirectory{results: []StudentSummary{{ID: uuid.New(), Name: "Juan Dela Cruz"}}}
	got := make(chan string, 4)
	w := New(newFakeCatalog(), dir, &fakeSubmitter{}, Options{
		Debounce: 25 * time.Millisecond,
		OnSearch: func(q string, _ []StudentSummary, _ error) { got <- q },
	})
	ctx := context.Background()

	for _, q := range []string{"j", "ju", "jua", "juan"} {
		w.Search(ctx, q)
	}
	select {
	case q := <-got:
		assert.Equal(t, "juan", q)
	case <-time.After(time.Second):
		t.Fatal("search never settled")
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"juan"}, dir.seen())
	assert.Len(t, w.SearchResults(), 1)

	w.Search(ctx, "   ")
	assert.Empty(t, w.SearchResults())
}

func TestWizardSearch_ClearCancelsPending(t *testing.T) {
	dir := &fakeDirectory{}
	w := New(newFakeCatalog(), dir, &fakeSubmitter{}, Options{Debounce: 20 * time.Millisecond})
	w.Search(context.Background(), "maria")
	w.Clear()
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, dir.seen())
}
