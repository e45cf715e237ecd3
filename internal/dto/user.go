package dto

import "github.com/yukikurage/project-tracker-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegisteredUserDTO is the user part of the signup response
type RegisteredUserDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SignupResponse is returned after a successful registration
type SignupResponse struct {
	Message string            `json:"message"`
	User    RegisteredUserDTO `json:"user"`
}

// TokenPairResponse is returned on login
type TokenPairResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// AccessTokenResponse is returned on token refresh
type AccessTokenResponse struct {
	Access string `json:"access"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToSignupResponse builds the registration response
func ToSignupResponse(user models.User) SignupResponse {
	return SignupResponse{
		Message: "User created successfully",
		User: RegisteredUserDTO{
			Username: user.Username,
			Email:    user.Email,
		},
	}
}
