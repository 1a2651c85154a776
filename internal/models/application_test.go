package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Status Parsing Tests
// ==========================

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Status
	}{
		{name: "pending", raw: "pending", expected: StatusPending},
		{name: "approved", raw: "approved", expected: StatusApproved},
		{name: "rejected", raw: "rejected", expected: StatusRejected},
		{name: "empty defaults to pending", raw: "", expected: StatusPending},
		{name: "unknown defaults to pending", raw: "archived", expected: StatusPending},
		{name: "case sensitive", raw: "Approved", expected: StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseStatus(tt.raw))
		})
	}
}

// ==========================
// Transition Table Tests
// ==========================

func TestTransitionFor(t *testing.T) {
	tests := []struct {
		name     string
		action   Action
		wantOK   bool
		wantFrom Status
		wantTo   Status
	}{
		{name: "approve from pending", action: ActionApprove, wantOK: true, wantFrom: StatusPending, wantTo: StatusApproved},
		{name: "reject from pending", action: ActionReject, wantOK: true, wantFrom: StatusPending, wantTo: StatusRejected},
		{name: "restore from rejected", action: ActionRestore, wantOK: true, wantFrom: StatusRejected, wantTo: StatusPending},
		{name: "unknown action", action: Action("escalate"), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edge, ok := TransitionFor(tt.action)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantFrom, edge.From)
				assert.Equal(t, tt.wantTo, edge.To)
			}
		})
	}
}

func TestTransitionTable_ApprovedIsTerminal(t *testing.T) {
	for action := range transitions {
		edge, _ := TransitionFor(action)
		assert.NotEqual(t, StatusApproved, edge.From,
			"no action may leave the approved state, but %q does", action)
	}
}

func TestActionForTargetStatus(t *testing.T) {
	tests := []struct {
		name   string
		target Status
		want   Action
		wantOK bool
	}{
		{name: "approved maps to approve", target: StatusApproved, want: ActionApprove, wantOK: true},
		{name: "rejected maps to reject", target: StatusRejected, want: ActionReject, wantOK: true},
		{name: "pending maps to restore", target: StatusPending, want: ActionRestore, wantOK: true},
		{name: "unknown target", target: Status("archived"), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, ok := ActionForTargetStatus(tt.target)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, action)
			}
		})
	}
}

// ==========================
// JSON Codec Tests
// ==========================

func TestApplication_MarshalJSON_FlatShape(t *testing.T) {
	app := Application{
		ID:          "a1b2c3d4",
		Status:      StatusPending,
		SubmittedAt: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
		Fields: map[string]interface{}{
			"firstName": "Amira",
			"lastName":  "Haddad",
			"email":     "amira@example.com",
		},
	}

	data, err := json.Marshal(app)
	require.NoError(t, err)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &flat))

	assert.Equal(t, "a1b2c3d4", flat["id"])
	assert.Equal(t, "pending", flat["status"])
	assert.Equal(t, "2026-03-15T10:30:00Z", flat["submittedAt"])
	assert.Equal(t, "Amira", flat["firstName"])
	assert.Equal(t, "Haddad", flat["lastName"])
	assert.Equal(t, "amira@example.com", flat["email"])
	assert.NotContains(t, flat, "fields", "applicant data must spread at the top level")
}

func TestApplication_RoundTrip(t *testing.T) {
	original := Application{
		ID:          "deadbeef",
		Status:      StatusApproved,
		SubmittedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Fields: map[string]interface{}{
			"firstName":       "Omar",
			"lastName":        "Saleh",
			"email":           "omar@example.com",
			"phone":           "555-0100",
			"yearsExperience": "7",
		},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Application
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.Status, decoded.Status)
	assert.True(t, original.SubmittedAt.Equal(decoded.SubmittedAt))
	assert.Equal(t, original.Fields, decoded.Fields)
}

func TestApplication_UnmarshalJSON_LegacyMigrations(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantStatus Status
		wantTime   time.Time
	}{
		{
			name:       "missing status becomes pending",
			raw:        `{"id":"abc12345","submittedAt":"2025-06-01T12:00:00Z","firstName":"Lena"}`,
			wantStatus: StatusPending,
			wantTime:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:       "unknown status becomes pending",
			raw:        `{"id":"abc12345","status":"in-review","submittedAt":"2025-06-01T12:00:00Z"}`,
			wantStatus: StatusPending,
			wantTime:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:       "createdAt fallback for submittedAt",
			raw:        `{"id":"abc12345","status":"approved","createdAt":"2024-11-20T08:15:00Z"}`,
			wantStatus: StatusApproved,
			wantTime:   time.Date(2024, 11, 20, 8, 15, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var app Application
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &app))
			assert.Equal(t, "abc12345", app.ID)
			assert.Equal(t, tt.wantStatus, app.Status)
			assert.True(t, tt.wantTime.Equal(app.SubmittedAt))
			assert.NotContains(t, app.Fields, "id")
			assert.NotContains(t, app.Fields, "status")
			assert.NotContains(t, app.Fields, "submittedAt")
		})
	}
}

// ==========================
// Helper Method Tests
// ==========================

func TestApplication_Clone_DoesNotAliasFields(t *testing.T) {
	app := Application{
		ID:     "abc12345",
		Fields: map[string]interface{}{"firstName": "Amira"},
	}

	clone := app.Clone()
	clone.Fields["firstName"] = "Changed"

	assert.Equal(t, "Amira", app.Fields["firstName"])
}

func TestApplication_FieldString(t *testing.T) {
	app := Application{Fields: map[string]interface{}{
		"name":   "  Amira  ",
		"years":  float64(7),
		"hasCDL": true,
		"tags":   []interface{}{"night", "regional"},
	}}

	assert.Equal(t, "Amira", app.FieldString("name"))
	assert.Equal(t, "7", app.FieldString("years"))
	assert.Equal(t, "true", app.FieldString("hasCDL"))
	assert.Equal(t, `["night","regional"]`, app.FieldString("tags"))
	assert.Equal(t, "", app.FieldString("missing"))
}

func TestApplication_FullName(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]interface{}
		want   string
	}{
		{name: "first and last", fields: map[string]interface{}{"firstName": "Amira", "lastName": "Haddad"}, want: "Amira Haddad"},
		{name: "first only", fields: map[string]interface{}{"firstName": "Amira"}, want: "Amira"},
		{name: "name fallback", fields: map[string]interface{}{"name": "Omar Saleh"}, want: "Omar Saleh"},
		{name: "nothing", fields: map[string]interface{}{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := Application{Fields: tt.fields}
			assert.Equal(t, tt.want, app.FullName())
		})
	}
}

func TestApplication_Phone(t *testing.T) {
	assert.Equal(t, "555-0100", Application{Fields: map[string]interface{}{"phone": "555-0100"}}.Phone())
	assert.Equal(t, "555-0200", Application{Fields: map[string]interface{}{"phoneNumber": "555-0200"}}.Phone())
	assert.Equal(t, "", Application{Fields: map[string]interface{}{}}.Phone())
}
