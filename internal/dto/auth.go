package dto

import (
	"time"

	"github.com/noah-isme/sparx-api/internal/models"
)

// IssueTokenRequest describes the identity embedded in an operator token.
type IssueTokenRequest struct {
	UserID    string          `json:"userId" validate:"required"`
	Role      models.UserRole `json:"role" validate:"required,oneof=SUPERADMIN ADMIN TEACHER STUDENT"`
	Email     string          `json:"email" validate:"omitempty,email"`
	FullName  string          `json:"fullName"`
	GroupID   string          `json:"groupId"`
	TeacherID string          `json:"teacherId"`
}

// IssueTokenResponse carries a signed access token.
type IssueTokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresIn   int64     `json:"expiresIn"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
