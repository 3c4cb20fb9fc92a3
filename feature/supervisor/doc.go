// Package supervisor runs the daily life cycle of a KF2 dedicated server.
//
// One cycle goes through these states:
//
//	Idle        nothing running
//	Syncing     approved items fetched, subscriptions replaced, stale cache removed
//	Prewarming  SteamCMD and the server run for the warm-up window so new
//	            workshop content gets downloaded
//	Stabilizing both processes stopped, map summaries and cycle rebuilt
//	Running     both processes relaunched and polled
//	Restarting  restart hour reached; processes stopped, next cycle begins
//	Stopped     terminal; a process exited on its own, the context was
//	            canceled or a step failed
//
// The restart hour is edge triggered: it only fires after the clock has been
// outside the restart hour at least once during the cycle. A cycle that
// begins inside the restart hour therefore runs for about a day.
//
// A process that exits on its own is not restarted. The supervisor stops the
// other one and returns ErrProcessExited, leaving the restart policy to
// whatever runs the manager (a service manager, a scheduled task).
package supervisor
