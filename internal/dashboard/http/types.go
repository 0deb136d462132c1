package http

// RegisterRequest is the body of POST /api/Account/register. userEmail is
// accepted as an alias of email.
type RegisterRequest struct {
	Email     string `json:"email" example:"alice@example.com"`
	UserEmail string `json:"userEmail,omitempty" swaggerignore:"true"`
	UserName  string `json:"userName" example:"Alice"`
	Password  string `json:"password" example:"correct horse battery staple"`
	Role      string `json:"role" example:"User"`
}

// LoginRequest is the body of POST /api/Account/login.
type LoginRequest struct {
	Email     string `json:"email" example:"alice@example.com"`
	UserEmail string `json:"userEmail,omitempty" swaggerignore:"true"`
	Password  string `json:"password" example:"correct horse battery staple"`
}

type registerForm struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	UserName string `json:"userName" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=256"`
	Role     string `json:"role" validate:"max=50"`
}

type loginForm struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=256"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// TokenResponse carries a signed session token.
type TokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// HealthResponse is returned by the health probes.
type HealthResponse struct {
	Status  string        `json:"status" example:"ok"`
	Uptime  string        `json:"uptime" example:"1h2m3s"`
	Version string        `json:"version" example:"0.1.0"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database" example:"ok"`
}

// Fixed client-facing messages.
const (
	msgEmailExists     = "Email already exists."
	msgUnexpected      = "An unexpected error occurred."
	msgStatusFailed    = "Error fetching battery status."
	msgTelemetryFailed = "Error fetching telemetry."
	msgInvalidOffset   = "offsetMinutes must be an integer."
	msgInvalidBody     = "Request body must be a JSON object."
	msgValidation      = "One or more fields are invalid."
)
