package auth

import "time"

// ProviderLocal marks accounts registered with an email/password pair.
// ProviderExternal marks accounts provisioned through the external
// identity-provider JWT path. Both produce the same session shape.
const (
	ProviderLocal    = "local"
	ProviderExternal = "external"
)

// User is an account owner in the dashboard.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"fullName"`
	PasswordHash    string    `json:"-"`
	Provider        string    `json:"provider"`
	ProviderSubject string    `json:"providerSubject,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Session is the server-side authenticated-user context. Sessions created by
// password login and by the identity-provider path are indistinguishable
// except for the Provider field.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
