package requests

// Login is the credential body of POST /api/login.
type Login struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}
