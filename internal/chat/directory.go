package chat

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"jobconnect-server/internal/models"
)

// AccountDirectory is the boundary to the surrounding user management: the
// chat core only needs to know whether an account id resolves.
type AccountDirectory interface {
	Exists(userID string) (bool, error)
}

type gormAccountDirectory struct {
	db *gorm.DB
}

// NewAccountDirectory returns an AccountDirectory backed by the users table.
func NewAccountDirectory(db *gorm.DB) AccountDirectory {
	return &gormAccountDirectory{db: db}
}

func (d *gormAccountDirectory) Exists(userID string) (bool, error) {
	var user models.User
	if err := d.db.Select("id").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up account %s: %w", userID, err)
	}
	return true, nil
}
