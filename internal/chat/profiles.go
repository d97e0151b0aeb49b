package chat

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"jobconnect-server/internal/models"
)

// Profile is the lightweight display profile used to decorate conversation
// and message payloads.
type Profile struct {
	UserID          string `json:"userId"`
	Type            string `json:"type"`
	FullName        string `json:"fullName"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	Industry        string `json:"industry,omitempty"`
	Location        string `json:"location,omitempty"`
}

const (
	ProfileTypeCandidate = "candidate"
	ProfileTypeCompany   = "company"
	ProfileTypeUser      = "user"
)

// ProfileResolver resolves a user id to a display profile. Resolution is
// decoration only: implementations must degrade to FallbackProfile rather
// than fail the calling operation.
type ProfileResolver interface {
	Resolve(userID string) Profile
}

// FallbackProfile is returned when no richer profile exists for the user.
func FallbackProfile(userID string) Profile {
	return Profile{
		UserID:   userID,
		Type:     ProfileTypeUser,
		FullName: "Unknown User",
	}
}

type gormProfileResolver struct {
	db *gorm.DB
}

// NewProfileResolver returns a ProfileResolver backed by the candidate and
// company profile tables. A user id resolves to its candidate profile if one
// exists, else its company profile, else the fallback.
func NewProfileResolver(db *gorm.DB) ProfileResolver {
	return &gormProfileResolver{db: db}
}

func (r *gormProfileResolver) Resolve(userID string) Profile {
	var candidate models.CandidateProfile
	err := r.db.First(&candidate, "user_id = ?", userID).Error
	if err == nil {
		return Profile{
			UserID:          userID,
			Type:            ProfileTypeCandidate,
			FullName:        candidate.FullName,
			ProfileImageURL: candidate.ProfileImageURL,
			Industry:        candidate.Industry,
			Location:        candidate.City,
		}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("profile lookup failed for user %s, using fallback: %v", userID, err)
		return FallbackProfile(userID)
	}

	var company models.CompanyProfile
	err = r.db.First(&company, "user_id = ?", userID).Error
	if err == nil {
		return Profile{
			UserID:          userID,
			Type:            ProfileTypeCompany,
			FullName:        company.CompanyName,
			ProfileImageURL: company.ProfileImageURL,
			Industry:        company.Industry,
			Location:        company.HQ,
		}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("profile lookup failed for user %s, using fallback: %v", userID, err)
	}
	return FallbackProfile(userID)
}
