// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status

import (
	"fmt"

	"github.com/juju/errors"
)

// Status is the workload status of a unit, as reported to Juju through
// status-set.
type Status string

// String returns a string representation of the Status.
func (s Status) String() string {
	return string(s)
}

// StatusInfo holds a Status and associated information.
type StatusInfo struct {
	Status  Status
	Message string
}

// String renders the status the way `juju status` shows it.
func (s StatusInfo) String() string {
	if s.Message == "" {
		return s.Status.String()
	}
	return fmt.Sprintf("%s: %s", s.Status, s.Message)
}

// StatusSetter represents a type whose status can be set.
type StatusSetter interface {
	SetStatus(StatusInfo) error
}

const (
	// Maintenance is set when:
	// The unit is not yet providing services, but is actively doing stuff
	// in preparation for providing those services.
	// This is a "spinning" state, not an error state.
	Maintenance Status = "maintenance"

	// Unknown is set when:
	// The charm has not called status-set yet.
	Unknown Status = "unknown"

	// Waiting is set when:
	// The unit is unable to progress to an active state because an application to
	// which it is related is not running.
	Waiting Status = "waiting"

	// Blocked is set when:
	// The unit needs manual intervention to get back to the Running state.
	Blocked Status = "blocked"

	// Active is set when:
	// The unit believes it is correctly offering all the services it has
	// been asked to offer.
	Active Status = "active"
)

// NewBlocked returns a blocked status with the given message.
func NewBlocked(message string) StatusInfo {
	return StatusInfo{Status: Blocked, Message: message}
}

// NewWaiting returns a waiting status with the given message.
func NewWaiting(message string) StatusInfo {
	return StatusInfo{Status: Waiting, Message: message}
}

// NewActive returns an active status without a message.
func NewActive() StatusInfo {
	return StatusInfo{Status: Active}
}

// ValidWorkloadStatus returns true if status has a valid value (that is to say,
// a value that it's OK to set) for units.
func ValidWorkloadStatus(status Status) bool {
	switch status {
	case
		Blocked,
		Maintenance,
		Waiting,
		Active:
		return true
	default:
		return false
	}
}

// Validate returns an error if the status cannot be set by a charm.
func (s StatusInfo) Validate() error {
	if !ValidWorkloadStatus(s.Status) {
		return errors.NotValidf("workload status %q", s.Status)
	}
	return nil
}
