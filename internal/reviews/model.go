package reviews

import "time"

// Review is an imported customer review awaiting an agent-drafted response.
// ResponseStatus tracks the publishing workflow, not response generation.
type Review struct {
	ID             string     `json:"id"`
	AccountID      string     `json:"accountId"`
	Author         string     `json:"author"`
	Rating         int        `json:"rating"`
	Body           string     `json:"body,omitempty"`
	Source         string     `json:"source,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	ResponseText   string     `json:"responseText,omitempty"`
	ResponseStatus string     `json:"responseStatus"`
	PostedAt       *time.Time `json:"postedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

const (
	ResponsePending   = "pending"
	ResponseDrafted   = "drafted"
	ResponsePublished = "published"
)
