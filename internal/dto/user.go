package dto

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the JSON body for POST /auth/register. Password is
// capped at 72 bytes, the bcrypt input limit.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=1,max=20"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	Email     string `json:"email" binding:"required,email,max=50"`
	FirstName string `json:"first_name" binding:"required,max=30"`
	LastName  string `json:"last_name" binding:"required,max=30"`
}

// UserResponse is returned when user info is needed (e.g. after login).
// The password hash never leaves the server.
type UserResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserPageResponse is the user's own page: account info plus the
// feedback they have posted.
type UserPageResponse struct {
	User     UserResponse       `json:"user"`
	Feedback []FeedbackResponse `json:"feedback"`
}
