package usecase

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/xavierca1/lead-manager/internal/entity"
)

// Nullable records whether a JSON key was present, so an explicit null
// can clear a field while an absent key leaves it untouched.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// Timestamp is a time.Time read from JSON with ParseISODate, so request
// bodies accept the same dates and date-times as query parameters. A bad
// value is reported as a *json.UnmarshalTypeError, which the decoder
// tags with the field name.
type Timestamp struct {
	time.Time
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return &json.UnmarshalTypeError{Value: string(b), Type: reflect.TypeOf(time.Time{})}
	}
	t, _, err := ParseISODate(strings.TrimSpace(raw))
	if err != nil {
		return &json.UnmarshalTypeError{Value: "string", Type: reflect.TypeOf(time.Time{})}
	}
	ts.Time = t
	return nil
}

type CreateLeadInput struct {
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Company        string     `json:"company"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	Source         string     `json:"source"`
	Status         string     `json:"status"`
	Score          *int       `json:"score"`
	LeadValue      *float64   `json:"lead_value"`
	LastActivityAt *Timestamp `json:"last_activity_at"`
	IsQualified    *bool      `json:"is_qualified"`
	Notes          string     `json:"notes"`
	AssignedTo     string     `json:"assigned_to"`
}

// UpdateLeadInput is a partial update: nil / unset fields are left as they are.
type UpdateLeadInput struct {
	FirstName      *string             `json:"first_name"`
	LastName       *string             `json:"last_name"`
	Email          *string             `json:"email"`
	Phone          *string             `json:"phone"`
	Company        *string             `json:"company"`
	City           *string             `json:"city"`
	State          *string             `json:"state"`
	Source         *string             `json:"source"`
	Status         *string             `json:"status"`
	Score          *int                `json:"score"`
	LeadValue      *float64            `json:"lead_value"`
	LastActivityAt Nullable[Timestamp] `json:"last_activity_at"`
	IsQualified    *bool               `json:"is_qualified"`
	Notes          *string             `json:"notes"`
	AssignedTo     Nullable[string]    `json:"assigned_to"`
}

type ListLeadsOutput struct {
	Data       []entity.Lead `json:"data"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	Total      int           `json:"total"`
	TotalPages int           `json:"totalPages"`
}
