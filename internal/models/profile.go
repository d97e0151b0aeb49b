package models

// CandidateProfile holds the public-facing profile of a candidate account.
// At most one exists per user; the chat layer reads it only for decoration.
type CandidateProfile struct {
	BaseModel
	UserID          string `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	FullName        string `gorm:"size:255;not null" json:"fullName"`
	ProfileImageURL string `gorm:"size:512" json:"profileImageUrl,omitempty"`
	Industry        string `gorm:"size:100" json:"industry,omitempty"`
	City            string `gorm:"size:100" json:"city,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// CompanyProfile holds the public-facing profile of a company account.
type CompanyProfile struct {
	BaseModel
	UserID          string `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	CompanyName     string `gorm:"size:255;not null" json:"companyName"`
	ProfileImageURL string `gorm:"size:512" json:"profileImageUrl,omitempty"`
	Industry        string `gorm:"size:100" json:"industry,omitempty"`
	HQ              string `gorm:"size:100" json:"hq,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
