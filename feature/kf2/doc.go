// Package kf2 describes a Killing Floor 2 dedicated server installation and
// the SteamCMD installation that keeps it up to date.
//
// It holds no behavior beyond path resolution: the file locations, section
// headers and launch variants every other feature needs.
//
// # Variants
//
// The two managed programs are values of the same Variant type, not distinct
// types. Each carries an install directory, an executable path relative to
// it and default arguments; ProcessSpec turns one into a process.Spec.
//
// # Layout
//
// Layout resolves the game ini, engine ini, workshop cache and custom map
// directories below the server install directory.
package kf2
