package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"jobconnect-server/internal/middleware"
	"jobconnect-server/internal/models"
	"jobconnect-server/internal/utils"
)

// ProfileHandler manages the candidate and company profile records that back
// chat decoration.
type ProfileHandler struct {
	DB *gorm.DB
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{DB: db}
}

// CandidateProfileRequest represents the request body for upserting the
// caller's candidate profile.
type CandidateProfileRequest struct {
	FullName        string `json:"fullName" binding:"required"`
	ProfileImageURL string `json:"profileImageUrl"`
	Industry        string `json:"industry"`
	City            string `json:"city"`
}

// UpsertCandidateProfile creates or updates the caller's candidate profile.
func (h *ProfileHandler) UpsertCandidateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req CandidateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var profile models.CandidateProfile
	err := h.DB.First(&profile, "user_id = ?", userID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	profile.UserID = userID
	profile.FullName = req.FullName
	profile.ProfileImageURL = req.ProfileImageURL
	profile.Industry = req.Industry
	profile.City = req.City

	if err := h.DB.Save(&profile).Error; err != nil {
		utils.InternalServerError(c, "Failed to save candidate profile: "+err.Error())
		return
	}
	utils.Success(c, "Candidate profile saved successfully", profile)
}

// GetCandidateProfile fetches a candidate profile by user id.
func (h *ProfileHandler) GetCandidateProfile(c *gin.Context) {
	userID := c.Param("userId")

	var profile models.CandidateProfile
	if err := h.DB.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Candidate profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Candidate profile fetched successfully", profile)
}

// CompanyProfileRequest represents the request body for upserting the
// caller's company profile.
type CompanyProfileRequest struct {
	CompanyName     string `json:"companyName" binding:"required"`
	ProfileImageURL string `json:"profileImageUrl"`
	Industry        string `json:"industry"`
	HQ              string `json:"hq"`
}

// UpsertCompanyProfile creates or updates the caller's company profile.
func (h *ProfileHandler) UpsertCompanyProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req CompanyProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var profile models.CompanyProfile
	err := h.DB.First(&profile, "user_id = ?", userID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	profile.UserID = userID
	profile.CompanyName = req.CompanyName
	profile.ProfileImageURL = req.ProfileImageURL
	profile.Industry = req.Industry
	profile.HQ = req.HQ

	if err := h.DB.Save(&profile).Error; err != nil {
		utils.InternalServerError(c, "Failed to save company profile: "+err.Error())
		return
	}
	utils.Success(c, "Company profile saved successfully", profile)
}

// GetCompanyProfile fetches a company profile by user id.
func (h *ProfileHandler) GetCompanyProfile(c *gin.Context) {
	userID := c.Param("userId")

	var profile models.CompanyProfile
	if err := h.DB.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Company profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Company profile fetched successfully", profile)
}
