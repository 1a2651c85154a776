// Package models defines the application record, its status state machine,
// and the flat JSON shape shared with the persisted collection.
package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Status is the closed set of application states.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus migrates a raw status value to the closed enum. Legacy records
// persisted without a status (or with an unrecognized one) become pending.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusApproved:
		return StatusApproved
	case StatusRejected:
		return StatusRejected
	default:
		return StatusPending
	}
}

// Action is a named status transition requested by a reviewer.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionRestore Action = "restore"
)

// Transition is one edge of the status state machine.
type Transition struct {
	From Status
	To   Status
}

// transitions is the full state machine. Approval is final: approved has no
// outgoing edge.
var transitions = map[Action]Transition{
	ActionApprove: {From: StatusPending, To: StatusApproved},
	ActionReject:  {From: StatusPending, To: StatusRejected},
	ActionRestore: {From: StatusRejected, To: StatusPending},
}

// TransitionFor returns the edge for an action, if the action exists.
func TransitionFor(action Action) (Transition, bool) {
	t, ok := transitions[action]
	return t, ok
}

// ActionForTargetStatus maps a desired status to the action that reaches it.
// The original admin UI posts {"status": "approved"} rather than an action
// name, so the boundary layer uses this to stay compatible.
func ActionForTargetStatus(target Status) (Action, bool) {
	switch target {
	case StatusApproved:
		return ActionApprove, true
	case StatusRejected:
		return ActionReject, true
	case StatusPending:
		return ActionRestore, true
	default:
		return "", false
	}
}

// Application is one applicant submission. Identity and submission time are
// immutable after creation; only Status may change, and only through the
// transition table.
type Application struct {
	ID          string
	Status      Status
	SubmittedAt time.Time
	Fields      map[string]interface{}
}

// reserved keys live at the top level of the persisted record; everything
// else is applicant-supplied field data.
const (
	keyID          = "id"
	keyStatus      = "status"
	keySubmittedAt = "submittedAt"
)

// MarshalJSON writes the flat record shape used on disk and on the wire:
// id, status and submittedAt at the top level with the applicant fields
// spread alongside them.
func (a Application) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(a.Fields)+3)
	for k, v := range a.Fields {
		flat[k] = v
	}
	flat[keyID] = a.ID
	flat[keyStatus] = string(a.Status)
	flat[keySubmittedAt] = a.SubmittedAt.UTC().Format(time.RFC3339)
	return json.Marshal(flat)
}

// UnmarshalJSON reads the flat record shape, applying the legacy migrations
// once: a missing status becomes pending, and a missing submittedAt falls
// back to createdAt when an old record carries one.
func (a *Application) UnmarshalJSON(data []byte) error {
	var flat map[string]interface{}
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	a.ID, _ = flat[keyID].(string)

	rawStatus, _ := flat[keyStatus].(string)
	a.Status = ParseStatus(rawStatus)

	rawTime, _ := flat[keySubmittedAt].(string)
	if rawTime == "" {
		rawTime, _ = flat["createdAt"].(string)
	}
	if rawTime != "" {
		if ts, err := time.Parse(time.RFC3339, rawTime); err == nil {
			a.SubmittedAt = ts
		}
	}

	delete(flat, keyID)
	delete(flat, keyStatus)
	delete(flat, keySubmittedAt)
	a.Fields = flat
	return nil
}

// Clone returns a deep-enough copy so store snapshots and mutators never
// alias the same field map.
func (a Application) Clone() Application {
	out := a
	out.Fields = make(map[string]interface{}, len(a.Fields))
	for k, v := range a.Fields {
		out.Fields[k] = v
	}
	return out
}

// FieldString returns the string form of an applicant field, or "" when the
// field is absent.
func (a Application) FieldString(key string) string {
	raw, ok := a.Fields[key]
	if !ok || raw == nil {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// FullName joins the name parts, falling back to a single name field.
func (a Application) FullName() string {
	parts := []string{}
	if first := a.FieldString("firstName"); first != "" {
		parts = append(parts, first)
	}
	if last := a.FieldString("lastName"); last != "" {
		parts = append(parts, last)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	return a.FieldString("name")
}

// Phone returns the contact number, accepting both key spellings seen in
// submitted payloads.
func (a Application) Phone() string {
	if p := a.FieldString("phone"); p != "" {
		return p
	}
	return a.FieldString("phoneNumber")
}
