package event

const (
	UserRegisteredDestination      string = "identity.user.registered"
	UserPasswordChangedDestination string = "identity.user.password_changed"
)

// HeaderCorrelationID carries the request correlation ID on every event.
const HeaderCorrelationID string = "cID"

type UserRegisteredMessage struct {
	UserID   int64  `json:"user_id,string"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type UserPasswordChangedMessage struct {
	UserID    int64  `json:"user_id,string"`
	ChangedAt int64  `json:"changed_at"`
	Source    string `json:"source"`
}
