// Package process starts and controls the external programs managed by the
// supervisor (SteamCMD and the KF2 dedicated server).
//
// A Launcher turns a Spec into a running Handle. A Handle offers a
// non-blocking liveness check (Poll), a termination request (Terminate,
// idempotent once the process is gone) and a blocking Wait. The exec-backed
// implementation reaps the child in a background goroutine so Poll never
// blocks.
package process
