package mail

import "time"

type NewLeadEmailData struct {
	FullName   string
	Email      string
	Company    string
	Source     string
	Score      int
	LeadValue  float64
	CreatedAt  time.Time
	DetailsURL string
}

type EmailSender struct {
	Host      string
	Port      int
	User      string
	Password  string
	From      string
	To        string
	ClientURL string

	dialer Dialer
}
