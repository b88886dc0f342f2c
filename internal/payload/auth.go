package payload

type RegisterRequest struct {
	FirstName      string `json:"first_name"      validate:"required"`
	LastName       string `json:"last_name"       validate:"required"`
	Email          string `json:"email"           validate:"required,email"`
	Password       string `json:"password"        validate:"required"`
	Phone          string `json:"phone"           validate:"required"`
	Role           string `json:"role"            validate:"required"`
	SecurityAnswer string `json:"security_answer" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    LoginUser `json:"user"`
}

// LoginUser is the identity projection returned on login. It never carries
// the password hash or the security answer.
type LoginUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type ForgotPasswordRequest struct {
	Email          string `json:"email"           validate:"required,email"`
	SecurityAnswer string `json:"security_answer" validate:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// UserResponse is the sanitized projection returned on registration and on
// the profile route.
type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
