package dto

import (
	"time"

	"assettrack/internal/domain/staff"
)

// SignInRequest for staff sign-in with code and password.
type SignInRequest struct {
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignInResponse returns the signed-in staff profile.
// The session itself travels back as cookies.
type SignInResponse struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Dept      string    `json:"dept"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// FromSignedIn creates SignInResponse from the domain result.
func FromSignedIn(s *staff.SignedInStaff) SignInResponse {
	return SignInResponse{
		Code:      s.Staff.Code,
		Name:      s.Staff.Name,
		Role:      s.Staff.Role,
		Dept:      s.Staff.Dept,
		ExpiresAt: s.ExpiresAt,
	}
}

// CreateStaffRequest for provisioning a new staff account.
type CreateStaffRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user"`
	Dept     string `json:"dept"`
	Password string `json:"password" binding:"required,min=8"`
}

// StaffResponse is the collaborator-facing staff profile.
type StaffResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Dept     string `json:"dept"`
	IsActive bool   `json:"isActive"`
	LinkSlug string `json:"linkSlug"`
}

// FromStaff creates StaffResponse from the domain model.
func FromStaff(s *staff.Staff) StaffResponse {
	return StaffResponse{
		ID:       s.ID.String(),
		Code:     s.Code,
		Name:     s.Name,
		Email:    s.Email,
		Role:     s.Role,
		Dept:     s.Dept,
		IsActive: s.IsActive,
		LinkSlug: s.LinkSlug,
	}
}
