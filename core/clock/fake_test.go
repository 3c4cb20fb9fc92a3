package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

func TestFakeAfter(t *testing.T) {
	c := Fake(epoch)
	ch := c.After(time.Minute)

	c.Advance(30 * time.Second)
	select {
	case <-ch:
		t.Fatal("fired early")
	default:
	}

	c.Advance(30 * time.Second)
	select {
	case got := <-ch:
		assert.Equal(t, epoch.Add(time.Minute), got)
	default:
		t.Fatal("did not fire")
	}
	assert.Equal(t, 0, c.Pending())
}

func TestFakeAfterNonPositive(t *testing.T) {
	c := Fake(epoch)
	select {
	case <-c.After(0):
	default:
		t.Fatal("expected immediate fire")
	}
}

func TestFakeTicker(t *testing.T) {
	c := Fake(epoch)
	ticker := c.NewTicker(time.Second)

	c.Advance(time.Second)
	assert.Equal(t, epoch.Add(time.Second), <-ticker.C)

	// Several periods in one Advance collapse into a single buffered tick.
	c.Advance(5 * time.Second)
	assert.Equal(t, epoch.Add(2*time.Second), <-ticker.C)
	select {
	case <-ticker.C:
		t.Fatal("expected dropped ticks")
	default:
	}
	assert.Equal(t, epoch.Add(6*time.Second), c.Now())

	ticker.Stop()
	assert.Equal(t, 0, c.Pending())
}

func TestWaitForTimers(t *testing.T) {
	c := Fake(epoch)
	done := make(chan struct{})

	go func() {
		<-c.After(time.Hour)
		close(done)
	}()

	c.WaitForTimers(1)
	c.Advance(time.Hour)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiter did not fire")
	}
}
