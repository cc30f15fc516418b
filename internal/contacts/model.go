package contacts

import "time"

// Contact is a lead or customer reached by the SMS and voice agents.
type Contact struct {
	ID              string     `json:"id"`
	AccountID       string     `json:"accountId"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName,omitempty"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email,omitempty"`
	Source          string     `json:"source,omitempty"`
	Status          string     `json:"status"`
	Tags            []string   `json:"tags,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	LastContactedAt *time.Time `json:"lastContactedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

const StatusNew = "new"
