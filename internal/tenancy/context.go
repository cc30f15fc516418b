package tenancy

import "context"

type ctxKey string

const accountKey ctxKey = "voicehub.account_id"

// WithAccountID stores the account id in context.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountKey, accountID)
}

// AccountIDFromContext extracts the account id if present.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(accountKey)
	if val == nil {
		return "", false
	}
	accountID, ok := val.(string)
	return accountID, ok && accountID != ""
}
