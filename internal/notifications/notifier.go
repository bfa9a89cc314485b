package notifications

import "context"

type AuthEventInput struct {
	Kind    string // "login" | "registration"
	Outcome string // "success" | "failure"
	Email   string
	UserID  string
}

type Notifier interface {
	SendAuthEvent(ctx context.Context, input AuthEventInput) error
}
