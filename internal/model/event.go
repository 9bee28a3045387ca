package model

import "time"

type EventKind string

const (
	EventFileCreated EventKind = "FILE_CREATED"
	EventDirCreated  EventKind = "DIR_CREATED"
	EventMoveAway    EventKind = "MOVE_AWAY"
	EventMoveInto    EventKind = "MOVE_INTO"
	EventOther       EventKind = "OTHER"
)

// Event is a single notification for an entry directly inside the watched
// directory. Name is the bare entry name, never a path.
type Event struct {
	Kind      EventKind
	Name      string
	Cookie    uint32
	IsDir     bool
	Timestamp time.Time
}

// Trigger describes why a reroute was attempted.
type Trigger string

const (
	TriggerCreated Trigger = "CREATED"
	TriggerArrival Trigger = "ARRIVAL"
	TriggerRename  Trigger = "RENAME"
)

type RerouteResult struct {
	Event   Event
	Trigger Trigger
	SrcPath string
	DstPath string
	Size    int64
	Skipped bool
	Err     error
}
