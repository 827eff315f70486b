package cache

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/agentstation/rostersync/pkg/roster"
)

// TestCache_New tests cache creation.
func TestCache_New(t *testing.T) {
	c := New(5*time.Minute, 10*time.Minute)
	if c == nil {
		t.Fatal("New() returned nil")
	}
	if c.store == nil {
		t.Error("cache store not initialized")
	}
}

// TestCache_BasicOperations tests Get, Set, and Delete.
func TestCache_BasicOperations(t *testing.T) {
	c := New(0, 0)

	t.Run("Set and Get", func(t *testing.T) {
		c.Set("key1", "value1")

		val, found := c.Get("key1")
		if !found {
			t.Error("expected key1 to be found")
		}
		if val != "value1" {
			t.Errorf("expected value1, got %v", val)
		}
	})

	t.Run("Set and Delete", func(t *testing.T) {
		c.Set("key2", "value2")
		c.Delete("key2")

		if _, found := c.Get("key2"); found {
			t.Error("expected key2 to be deleted")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		c.Set("key3", 3)
		c.Clear()
		if c.ItemCount() != 0 {
			t.Errorf("expected empty cache, got %d items", c.ItemCount())
		}
	})
}

// TestCache_SetWithTTL tests custom TTL.
func TestCache_SetWithTTL(t *testing.T) {
	c := New(5*time.Minute, 10*time.Millisecond)
	c.SetWithTTL("short", "v", 20*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	if _, found := c.Get("short"); found {
		t.Error("expected short-lived key to expire")
	}
}

// TestRemember tests load-once semantics.
func TestRemember(t *testing.T) {
	c := New(time.Minute, time.Minute)
	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Remember(c, "answer", load)
		if err != nil || v != 42 {
			t.Fatalf("unexpected %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 load, got %d", calls)
	}
	stats := c.GetStats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

// TestRemember_ErrorsNotCached tests that failed loads are retried.
func TestRemember_ErrorsNotCached(t *testing.T) {
	c := New(time.Minute, time.Minute)
	boom := errors.New("boom")
	if _, err := Remember(c, "k", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	v, err := Remember(c, "k", func() (string, error) { return "ok", nil })
	if err != nil || v != "ok" {
		t.Errorf("expected ok after failed load, got %q, %v", v, err)
	}
}

// TestRemember_NilCache tests that a nil cache always loads.
func TestRemember_NilCache(t *testing.T) {
	calls := 0
	for i := 0; i < 2; i++ {
		_, _ = Remember(nil, "k", func() (int, error) { calls++; return 1, nil })
	}
	if calls != 2 {
		t.Errorf("expected 2 loads, got %d", calls)
	}
}

type countingSource struct {
	households int
}

func (s *countingSource) People(context.Context, string, url.Values) ([]roster.Person, error) {
	return nil, nil
}

func (s *countingSource) Household(_ context.Context, id int64) (*roster.Household, error) {
	s.households++
	return &roster.Household{ID: id, City: "Austin"}, nil
}

// TestSource_CachesHouseholds tests the household decorator.
func TestSource_CachesHouseholds(t *testing.T) {
	inner := &countingSource{}
	src := NewSource(inner, New(time.Minute, time.Minute))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		h, err := src.Household(ctx, 7)
		if err != nil {
			t.Fatal(err)
		}
		if h.ID != 7 {
			t.Errorf("expected household 7, got %d", h.ID)
		}
	}
	if _, err := src.Household(ctx, 8); err != nil {
		t.Fatal(err)
	}
	if inner.households != 2 {
		t.Errorf("expected 2 fetches, got %d", inner.households)
	}
}
