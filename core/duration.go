package core

import (
	"worktime.app/worktime/model"
	"worktime.app/worktime/utils"
)

// DurationPolicy controls how malformed clock strings are handled when
// computing net minutes.
type DurationPolicy int

const (
	// PolicyStrict surfaces malformed arrival/departure values as
	// ErrInvalidTime. This is the default everywhere.
	PolicyStrict DurationPolicy = iota
	// PolicyLenient treats unparseable clock values as 00:00, matching the
	// historical behaviour some existing databases relied on. Opt-in via
	// configuration only.
	PolicyLenient
)

// NetMinutes computes the signed net worked minutes of one session:
// (departure - arrival) - break + remote. Break and remote default to zero
// through their identity element; arrival and departure must be valid HH:MM
// clock strings.
func NetMinutes(arrival, departure string, breakMinutes int, remoteMinutes *int) (int, error) {
	a, err := utils.ParseClock(arrival)
	if err != nil {
		return 0, err
	}
	d, err := utils.ParseClock(departure)
	if err != nil {
		return 0, err
	}
	remote := 0
	if remoteMinutes != nil {
		remote = *remoteMinutes
	}
	return (d - a) - breakMinutes + remote, nil
}

// SessionNetMinutes computes net minutes for a stored session row under the
// given policy.
func SessionNetMinutes(s model.WorkSession, policy DurationPolicy) (int, error) {
	if policy == PolicyLenient {
		a, _ := utils.ParseClock(s.ArrivalTime)
		d, _ := utils.ParseClock(s.DepartureTime)
		remote := 0
		if s.RemoteMinutes != nil {
			remote = *s.RemoteMinutes
		}
		return (d - a) - s.BreakMinutes + remote, nil
	}
	return NetMinutes(s.ArrivalTime, s.DepartureTime, s.BreakMinutes, s.RemoteMinutes)
}
