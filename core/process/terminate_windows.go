//go:build windows

package process

import "os"

// Windows has no SIGTERM; TerminateProcess is what Kill issues.
func terminate(p *os.Process) error {
	return p.Kill()
}
