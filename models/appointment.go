package models

import (
	"fmt"
	"time"
)

// AppointmentDetails is a partially- or fully-filled appointment proposal
// built incrementally across conversation turns. A later extraction only
// overwrites a field when the new utterance supplies it; existing values are
// never silently cleared.
type AppointmentDetails struct {
	Title       string   `json:"title,omitempty"`
	Date        string   `json:"date,omitempty"` // ISO calendar date, 2006-01-02
	Time        string   `json:"time,omitempty"` // local time, 15:04
	Duration    int      `json:"duration,omitempty"` // minutes
	TimeZone    string   `json:"timeZone,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
	Description string   `json:"description,omitempty"`
}

// HasAttendee reports whether the email is already in the attendee set.
func (a AppointmentDetails) HasAttendee(email string) bool {
	for _, att := range a.Attendees {
		if att == email {
			return true
		}
	}
	return false
}

// Window computes the half-open [start, start+duration) interval of the
// appointment in its timezone.
func (a AppointmentDetails) Window() (time.Time, time.Time, error) {
	loc, err := time.LoadLocation(a.TimeZone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid timezone %q: %w", a.TimeZone, err)
	}
	start, err := time.ParseInLocation("2006-01-02T15:04", a.Date+"T"+a.Time, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid appointment date/time: %w", err)
	}
	return start, start.Add(time.Duration(a.Duration) * time.Minute), nil
}

// AppointmentPhase names the active variant of an AppointmentState.
type AppointmentPhase string

const (
	PhaseEmpty     AppointmentPhase = ""
	PhaseNeedsInfo AppointmentPhase = "needs_info"
	PhaseConfirm   AppointmentPhase = "confirm"
	PhaseConflict  AppointmentPhase = "conflict"
	PhaseScheduled AppointmentPhase = "scheduled"
	PhaseFailed    AppointmentPhase = "failed"
)

// AppointmentState is the carried state of one appointment thread. Exactly
// one phase is active at a time; Scheduled and Failed are terminal.
type AppointmentState struct {
	Phase        AppointmentPhase   `json:"phase"`
	Appointment  AppointmentDetails `json:"appointment"`
	MissingField string             `json:"missingField,omitempty"` // set in needs_info
	ConflictWith string             `json:"conflictWith,omitempty"` // set in conflict
	EventRef     string             `json:"eventRef,omitempty"`     // set in scheduled
	Reason       string             `json:"reason,omitempty"`       // set in failed
}

// Active reports whether the thread still expects a follow-up utterance.
func (s AppointmentState) Active() bool {
	switch s.Phase {
	case PhaseNeedsInfo, PhaseConfirm, PhaseConflict:
		return true
	}
	return false
}

// ConflictResult is the outcome of a single conflict check.
type ConflictResult struct {
	HasConflict        bool   `json:"hasConflict"`
	ConflictingSummary string `json:"conflictingSummary,omitempty"`
}

// CalendarEvent is an event as returned by the calendar transport.
type CalendarEvent struct {
	ID       string `json:"id"`
	Summary  string `json:"summary"`
	HTMLLink string `json:"htmlLink,omitempty"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
}
