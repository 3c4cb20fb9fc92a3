package supervisor

import "time"

// restartSchedule fires once when the hour changes to the restart hour.
type restartSchedule struct {
	hour  int
	armed bool
}

func newRestartSchedule(hour int) *restartSchedule {
	return &restartSchedule{hour: hour}
}

// Observe reports whether a restart is due at now.
func (r *restartSchedule) Observe(now time.Time) bool {
	if now.Hour() != r.hour {
		r.armed = true
		return false
	}
	if !r.armed {
		return false
	}
	r.armed = false
	return true
}
