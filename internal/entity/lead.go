package entity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrLeadNotFound       = errors.New("lead not found")
	ErrInvalidLeadID      = errors.New("invalid lead id")
	ErrEmailAlreadyExists = errors.New("lead with this email already exists")
)

// Field limits shared by validation and the schema.
const (
	MaxNameLen    = 50
	MinNameLen    = 2
	MaxPhoneLen   = 20
	MaxCompanyLen = 100
	MaxCityLen    = 50
	MaxStateLen   = 50
	MaxNotesLen   = 1000
	MinScore      = 0
	MaxScore      = 100
)

type Lead struct {
	ID             string     `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Company        string     `json:"company"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	Source         Source     `json:"source"`
	Status         Status     `json:"status"`
	Score          int        `json:"score"`
	LeadValue      float64    `json:"lead_value"`
	LastActivityAt *time.Time `json:"last_activity_at"`
	IsQualified    bool       `json:"is_qualified"`
	Notes          string     `json:"notes"`
	AssignedTo     *string    `json:"assigned_to"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewLead builds a lead with a fresh id and the schema defaults
// (status new, score 0, value 0, not qualified).
func NewLead(firstName, lastName, email string, source Source, now time.Time) *Lead {
	return &Lead{
		ID:        uuid.New().String(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Source:    source,
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (l Lead) FullName() string {
	return l.FirstName + " " + l.LastName
}

// MarshalJSON adds the derived full_name.
func (l Lead) MarshalJSON() ([]byte, error) {
	type plain Lead
	return json.Marshal(struct {
		plain
		FullName string `json:"full_name"`
	}{plain(l), l.FullName()})
}

// ParseLeadID distinguishes a malformed identifier from one that simply
// does not exist.
func ParseLeadID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidLeadID
	}
	return u.String(), nil
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Find(ctx context.Context, q LeadQuery) ([]Lead, error)
	Count(ctx context.Context, f LeadFilter) (int, error)
	Each(ctx context.Context, f LeadFilter, s LeadSort, fn func(*Lead) error) error
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id string) error
}

// ErrStopIteration ends an Each scan early without reporting an error.
var ErrStopIteration = errors.New("stop iteration")
