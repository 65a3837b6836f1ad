package auth

import (
	"time"

	"tinhnguyen/internal/model/user"
	"tinhnguyen/internal/service"
)

// ErrorResponse is the error envelope shared by all auth endpoints.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// UserInfo is the user representation returned by the auth endpoints.
type UserInfo struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Role         string       `json:"role"`
	TeamID       string       `json:"team_id,omitempty"`
	TeamPosition string       `json:"team_position,omitempty"`
	Profile      *UserProfile `json:"profile,omitempty"`
	AvatarURL    string       `json:"avatar_url,omitempty"`
	CardURL      string       `json:"card_url,omitempty"`
	LastLoginAt  string       `json:"last_login_at,omitempty"`
	CreatedAt    string       `json:"created_at,omitempty"`
}

// UserProfile is the profile block of UserInfo.
type UserProfile struct {
	FullName  string `json:"full_name,omitempty"`
	StudentID string `json:"student_id,omitempty"`
	Faculty   string `json:"faculty,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// DestinationInfo tells the client which surface to land on.
type DestinationInfo struct {
	Surface string `json:"surface"`
	TeamID  string `json:"team_id,omitempty"`
}

func toUserInfo(u *user.User) UserInfo {
	info := UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Role:         u.Role.String(),
		TeamID:       u.TeamID,
		TeamPosition: u.TeamPosition.String(),
		AvatarURL:    u.AvatarURL,
		CardURL:      u.CardURL,
	}

	if u.Profile != nil {
		info.Profile = &UserProfile{
			FullName:  u.Profile.FullName,
			StudentID: u.Profile.StudentID,
			Faculty:   u.Profile.Faculty,
			Phone:     u.Profile.Phone,
		}
	}

	if u.LastLoginAt != nil {
		info.LastLoginAt = u.LastLoginAt.Format(time.RFC3339)
	}
	info.CreatedAt = u.CreatedAt.Format(time.RFC3339)

	return info
}

func toDestinationInfo(d service.Destination) DestinationInfo {
	return DestinationInfo{
		Surface: string(d.Surface),
		TeamID:  d.TeamID,
	}
}
