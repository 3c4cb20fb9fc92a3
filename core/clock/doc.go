// Package clock provides an injectable time source.
//
// The supervisor never calls time.Now, time.After or time.NewTicker
// directly; it is handed a Clock. Production code uses Real(). Tests use
// Fake(), whose time only moves when Advance is called, which makes the
// restart-hour and warm-up logic deterministic.
//
// # Synchronization
//
// A goroutine blocked on a FakeClock timer registers a waiter. Tests call
// WaitForTimers(n) before Advance so that the timer is guaranteed to exist
// when time moves:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 10, 0, 0, 0, time.Local))
//	go sup.Run(ctx)
//	c.WaitForTimers(1)
//	c.Advance(5 * time.Minute)
package clock
