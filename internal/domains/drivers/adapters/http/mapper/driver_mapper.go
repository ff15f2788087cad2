package mapper

import (
	"time"

	"github.com/Apurer/courier-api/internal/domains/drivers/domain"
	"github.com/Apurer/courier-api/internal/domains/drivers/ports"
)

// RegisterRequest is the driver sign-up payload.
type RegisterRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Password      string `json:"password"`
	VehicleType   string `json:"vehicleType"`
	VehicleNumber string `json:"vehicleNumber"`
	IDProof       string `json:"idProof"`
}

type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type LoginRequest struct {
	EmailOrPhone string `json:"emailOrPhone"`
	Password     string `json:"password"`
}

type StatusRequest struct {
	DriverID string `json:"driverId"`
	Status   string `json:"status"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

type PushTokenRequest struct {
	FCMToken string `json:"fcmToken"`
}

// Driver is the public driver view; credentials and push tokens are never exposed.
type Driver struct {
	DriverID      string    `json:"driverId"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	VehicleType   string    `json:"vehicleType"`
	VehicleNumber string    `json:"vehicleNumber"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Driver  Driver `json:"driver"`
}

func ToRegistrationInput(req RegisterRequest) domain.RegistrationInput {
	return domain.RegistrationInput{
		Username:      req.Username,
		Email:         req.Email,
		Phone:         req.Phone,
		Password:      req.Password,
		VehicleType:   domain.VehicleType(req.VehicleType),
		VehicleNumber: req.VehicleNumber,
		IDProof:       req.IDProof,
	}
}

func FromDomainDriver(d *domain.Driver) Driver {
	if d == nil {
		return Driver{}
	}
	return Driver{
		DriverID:      d.ID,
		Username:      d.Username,
		Email:         d.Email,
		Phone:         d.Phone,
		VehicleType:   string(d.VehicleType),
		VehicleNumber: d.VehicleNumber,
		Status:        string(d.Status),
		CreatedAt:     d.CreatedAt,
	}
}

func FromDomainDrivers(list []*domain.Driver) []Driver {
	out := make([]Driver, 0, len(list))
	for _, d := range list {
		out = append(out, FromDomainDriver(d))
	}
	return out
}

func FromLoginResult(r *ports.LoginResult) LoginResponse {
	return LoginResponse{Message: "Login successful", Token: r.Token, Driver: FromDomainDriver(r.Driver)}
}
