package dto

import "github.com/btc-academy/academy-api/internal/models"

// UnlockStatusResponse reports the chapter gate for one identity.
type UnlockStatusResponse struct {
	IsRegistered bool                         `json:"isRegistered"`
	IsEnrolled   bool                         `json:"isEnrolled"`
	IsAdmin      bool                         `json:"isAdmin,omitempty"`
	Chapters     map[int]models.ChapterStatus `json:"chapters"`
	Message      string                       `json:"message,omitempty"`
}
