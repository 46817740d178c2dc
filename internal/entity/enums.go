package entity

import (
	"database/sql/driver"
	"fmt"
)

// Status is the pipeline stage of a lead. The zero value is StatusNew.
type Status uint8

const (
	StatusNew Status = iota
	StatusContacted
	StatusQualified
	StatusLost
	StatusWon
)

var statusNames = [...]string{"new", "contacted", "qualified", "lost", "won"}

// Statuses lists every status in declaration order.
func Statuses() []Status {
	return []Status{StatusNew, StatusContacted, StatusQualified, StatusLost, StatusWon}
}

func ParseStatus(v string) (Status, error) {
	for i, name := range statusNames {
		if name == v {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("invalid status %q", v)
}

func (s Status) Valid() bool { return int(s) < len(statusNames) }

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
	return statusNames[s]
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", uint8(s))
	}
	return []byte(statusNames[s]), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", uint8(s))
	}
	return s.String(), nil
}

func (s *Status) Scan(src any) error {
	raw, err := scanText(src)
	if err != nil {
		return fmt.Errorf("scan status: %w", err)
	}
	return s.UnmarshalText([]byte(raw))
}

// Source is the acquisition channel of a lead. The zero value is not a
// valid source: every lead must name one explicitly.
type Source uint8

const (
	SourceWebsite Source = iota + 1
	SourceFacebookAds
	SourceGoogleAds
	SourceReferral
	SourceEvents
	SourceOther
)

var sourceNames = [...]string{"", "website", "facebook_ads", "google_ads", "referral", "events", "other"}

func Sources() []Source {
	return []Source{SourceWebsite, SourceFacebookAds, SourceGoogleAds, SourceReferral, SourceEvents, SourceOther}
}

func ParseSource(v string) (Source, error) {
	if v != "" {
		for i, name := range sourceNames {
			if name == v {
				return Source(i), nil
			}
		}
	}
	return 0, fmt.Errorf("invalid source %q", v)
}

func (s Source) Valid() bool { return s >= SourceWebsite && int(s) < len(sourceNames) }

func (s Source) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Source(%d)", uint8(s))
	}
	return sourceNames[s]
}

func (s Source) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid source %d", uint8(s))
	}
	return []byte(sourceNames[s]), nil
}

func (s *Source) UnmarshalText(b []byte) error {
	v, err := ParseSource(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s Source) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid source %d", uint8(s))
	}
	return s.String(), nil
}

func (s *Source) Scan(src any) error {
	raw, err := scanText(src)
	if err != nil {
		return fmt.Errorf("scan source: %w", err)
	}
	return s.UnmarshalText([]byte(raw))
}

func scanText(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported type %T", src)
	}
}
