package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email,omitempty"`
	FullName string   `json:"full_name,omitempty"`
	// GroupID scopes a student's default timetable view.
	GroupID string `json:"group_id,omitempty"`
	// TeacherID scopes a teacher's default timetable view.
	TeacherID string `json:"teacher_id,omitempty"`
	jwt.RegisteredClaims
}
