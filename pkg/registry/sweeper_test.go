package registry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lecternlabs/lectern/pkg/registry"
)

func TestSweeper_Sweep(t *testing.T) {
	reg := registry.New()
	if err := reg.SetPage("idle", "content"); err != nil {
		t.Fatalf("SetPage failed: %v", err)
	}

	sweeper := registry.NewSweeper(reg, registry.WithTTL(time.Minute))

	// Anchored at publish time the session is within its TTL.
	if removed := sweeper.Sweep(time.Now()); removed != 0 {
		t.Errorf("expected no removals, got %d", removed)
	}

	// Far in the future it is long past the TTL.
	if removed := sweeper.Sweep(time.Now().Add(time.Hour)); removed != 1 {
		t.Errorf("expected 1 removal, got %d", removed)
	}
	if got := reg.Count(); got != 0 {
		t.Errorf("expected empty registry, got %d", got)
	}
}

func TestSweeper_OnSweepHook(t *testing.T) {
	reg := registry.New()
	if err := reg.SetPage("a", "x"); err != nil {
		t.Fatalf("SetPage failed: %v", err)
	}
	if err := reg.SetPage("b", "y"); err != nil {
		t.Fatalf("SetPage failed: %v", err)
	}

	var observed []int
	sweeper := registry.NewSweeper(reg,
		registry.WithTTL(time.Minute),
		registry.WithOnSweep(func(removed int) {
			observed = append(observed, removed)
		}),
	)

	sweeper.Sweep(time.Now().Add(time.Hour))
	sweeper.Sweep(time.Now().Add(time.Hour))

	// The hook fires on every sweep, even when nothing was removed.
	assert.Equal(t, []int{2, 0}, observed)
}

func TestSweeper_RunRemovesIdleSessions(t *testing.T) {
	reg := registry.New()
	if err := reg.SetPage("idle", "content"); err != nil {
		t.Fatalf("SetPage failed: %v", err)
	}

	sweeper := registry.NewSweeper(reg,
		registry.WithInterval(5*time.Millisecond),
		registry.WithTTL(time.Nanosecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sweeper.Run(ctx)
	}()

	// Poll until the ticker has fired and swept the session away.
	deadline := time.After(2 * time.Second)
	for reg.Count() > 0 {
		select {
		case <-deadline:
			cancel()
			t.Fatal("sweeper never removed the idle session")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}

func TestSweeper_DefaultsIgnoreInvalidOptions(t *testing.T) {
	reg := registry.New()
	sweeper := registry.NewSweeper(reg,
		registry.WithInterval(-time.Second),
		registry.WithTTL(0),
	)

	if err := reg.SetPage("abc", "content"); err != nil {
		t.Fatalf("SetPage failed: %v", err)
	}

	// With the 24h default TTL intact, a sweep anchored one hour from now
	// leaves the session alone. A zero TTL would have removed it.
	if removed := sweeper.Sweep(time.Now().Add(time.Hour)); removed != 0 {
		t.Errorf("non-positive options must fall back to defaults, removed %d", removed)
	}
}
