package dto

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type SocialSignInRequest struct {
	ProviderToken string `json:"provider_token"`
	Role          string `json:"role"`
	Mode          string `json:"mode"`
}

type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
	License         string `json:"license,omitempty"`
	Specialization  string `json:"specialization,omitempty"`
	AcceptTerms     bool   `json:"accept_terms"`
}

type CompleteProfileRequest struct {
	License        string `json:"license"`
	Specialization string `json:"specialization"`
}

type AuthResponse struct {
	Token            string        `json:"token,omitempty"`
	Target           string        `json:"target"`
	Notice           string        `json:"notice,omitempty"`
	VerificationSent *bool         `json:"verification_sent,omitempty"`
	User             *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	Key              string `json:"key"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Role             string `json:"role"`
	ProfileCompleted bool   `json:"profile_completed"`
}

type SessionResponse struct {
	Loading       bool          `json:"loading"`
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}

type ErrorResponse struct {
	Error   bool         `json:"error"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
