package mapper

import (
	userdomain "github.com/Apurer/courier-api/internal/domains/users/domain"
	userports "github.com/Apurer/courier-api/internal/domains/users/ports"
)

// RegisterRequest is the customer sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginRequest is the customer login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// ProfileRequest edits the caller's profile; blank fields are left alone.
type ProfileRequest struct {
	FullName string `json:"fullName"`
	NickName string `json:"nickName"`
	DOB      string `json:"dob"`
	Phone    string `json:"phone"`
	Gender   string `json:"gender"`
	Image    string `json:"image"`
}

// User is the transport representation; the password hash never leaves the service.
type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
	NickName string `json:"nickName,omitempty"`
	DOB      string `json:"dob,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Image    string `json:"image,omitempty"`
}

// CustomerSummary is one row of the admin customer list.
type CustomerSummary struct {
	CustomerID  string `json:"customerId"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	TotalOrders int    `json:"totalOrders"`
}

// LoginResponse pairs the bearer token with the account it belongs to.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func ToRegisterInput(req RegisterRequest) userports.RegisterInput {
	return userports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Phone:    user.Phone,
		Role:     string(user.Role),
		NickName: user.NickName,
		DOB:      user.DateOfBirth,
		Gender:   user.Gender,
		Image:    user.Image,
	}
}

func ToProfileUpdate(req ProfileRequest) userdomain.ProfileUpdate {
	return userdomain.ProfileUpdate{
		Name:        req.FullName,
		NickName:    req.NickName,
		DateOfBirth: req.DOB,
		Phone:       req.Phone,
		Gender:      req.Gender,
		Image:       req.Image,
	}
}

func ToCustomerSummary(user *userdomain.User, totalOrders int) CustomerSummary {
	return CustomerSummary{
		CustomerID:  user.ID,
		FullName:    user.Name,
		Email:       user.Email,
		Phone:       user.Phone,
		TotalOrders: totalOrders,
	}
}

func FromLoginResult(result *userports.LoginResult) LoginResponse {
	if result == nil {
		return LoginResponse{}
	}
	return LoginResponse{Token: result.Token, User: FromDomainUser(result.User)}
}
