package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/xavierca1/lead-manager/internal/entity"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalize trims every free-text field and canonicalises the email.
func (in *CreateLeadInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Company = strings.TrimSpace(in.Company)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Source = strings.TrimSpace(in.Source)
	in.Status = strings.TrimSpace(in.Status)
	in.AssignedTo = strings.TrimSpace(in.AssignedTo)
}

func (in *UpdateLeadInput) normalize() {
	for _, p := range []*string{in.FirstName, in.LastName, in.Phone, in.Company, in.City, in.State, in.Source, in.Status} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	if in.Email != nil {
		*in.Email = NormalizeEmail(*in.Email)
	}
	if in.AssignedTo.Value != nil {
		*in.AssignedTo.Value = strings.TrimSpace(*in.AssignedTo.Value)
	}
}

func ValidateCreateLeadInput(input CreateLeadInput) ValidationErrors {
	var errs ValidationErrors

	errs = checkName(errs, "first_name", input.FirstName)
	errs = checkName(errs, "last_name", input.LastName)

	if input.Email == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	} else if !emailPattern.MatchString(input.Email) {
		errs = append(errs, ValidationError{"email", "must be a valid email"})
	}

	errs = checkMaxLen(errs, "phone", input.Phone, entity.MaxPhoneLen)
	errs = checkMaxLen(errs, "company", input.Company, entity.MaxCompanyLen)
	errs = checkMaxLen(errs, "city", input.City, entity.MaxCityLen)
	errs = checkMaxLen(errs, "state", input.State, entity.MaxStateLen)
	errs = checkMaxLen(errs, "notes", input.Notes, entity.MaxNotesLen)

	if input.Source == "" {
		errs = append(errs, ValidationError{"source", "is required"})
	} else if _, err := entity.ParseSource(input.Source); err != nil {
		errs = append(errs, ValidationError{"source", sourceMessage})
	}
	if input.Status != "" {
		if _, err := entity.ParseStatus(input.Status); err != nil {
			errs = append(errs, ValidationError{"status", statusMessage})
		}
	}

	errs = checkScore(errs, input.Score)
	errs = checkLeadValue(errs, input.LeadValue)

	if input.AssignedTo != "" {
		if _, err := uuid.Parse(input.AssignedTo); err != nil {
			errs = append(errs, ValidationError{"assigned_to", "must be a valid user id"})
		}
	}

	return errs
}

func ValidateUpdateLeadInput(input UpdateLeadInput) ValidationErrors {
	var errs ValidationErrors

	if input.FirstName != nil {
		errs = checkName(errs, "first_name", *input.FirstName)
	}
	if input.LastName != nil {
		errs = checkName(errs, "last_name", *input.LastName)
	}
	if input.Email != nil && !emailPattern.MatchString(*input.Email) {
		errs = append(errs, ValidationError{"email", "must be a valid email"})
	}
	if input.Phone != nil {
		errs = checkMaxLen(errs, "phone", *input.Phone, entity.MaxPhoneLen)
	}
	if input.Company != nil {
		errs = checkMaxLen(errs, "company", *input.Company, entity.MaxCompanyLen)
	}
	if input.City != nil {
		errs = checkMaxLen(errs, "city", *input.City, entity.MaxCityLen)
	}
	if input.State != nil {
		errs = checkMaxLen(errs, "state", *input.State, entity.MaxStateLen)
	}
	if input.Notes != nil {
		errs = checkMaxLen(errs, "notes", *input.Notes, entity.MaxNotesLen)
	}
	if input.Source != nil {
		if _, err := entity.ParseSource(*input.Source); err != nil {
			errs = append(errs, ValidationError{"source", sourceMessage})
		}
	}
	if input.Status != nil {
		if _, err := entity.ParseStatus(*input.Status); err != nil {
			errs = append(errs, ValidationError{"status", statusMessage})
		}
	}

	errs = checkScore(errs, input.Score)
	errs = checkLeadValue(errs, input.LeadValue)

	if v := input.AssignedTo.Value; v != nil && *v != "" {
		if _, err := uuid.Parse(*v); err != nil {
			errs = append(errs, ValidationError{"assigned_to", "must be a valid user id"})
		}
	}

	return errs
}

const (
	sourceMessage = "must be one of: website, facebook_ads, google_ads, referral, events, other"
	statusMessage = "must be one of: new, contacted, qualified, lost, won"
)

func checkName(errs ValidationErrors, field, v string) ValidationErrors {
	n := utf8.RuneCountInString(v)
	if n == 0 {
		return append(errs, ValidationError{field, "is required"})
	}
	if n < entity.MinNameLen || n > entity.MaxNameLen {
		return append(errs, ValidationError{field, fmt.Sprintf("must be between %d and %d characters", entity.MinNameLen, entity.MaxNameLen)})
	}
	return errs
}

func checkMaxLen(errs ValidationErrors, field, v string, max int) ValidationErrors {
	if utf8.RuneCountInString(v) > max {
		return append(errs, ValidationError{field, fmt.Sprintf("must not exceed %d characters", max)})
	}
	return errs
}

func checkScore(errs ValidationErrors, score *int) ValidationErrors {
	if score != nil && (*score < entity.MinScore || *score > entity.MaxScore) {
		return append(errs, ValidationError{"score", "must be between 0 and 100"})
	}
	return errs
}

func checkLeadValue(errs ValidationErrors, v *float64) ValidationErrors {
	if v != nil && (*v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0)) {
		return append(errs, ValidationError{"lead_value", "must be a non-negative number"})
	}
	return errs
}
