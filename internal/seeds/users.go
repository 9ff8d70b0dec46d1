package seeds

import (
	"errors"

	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DemoEmail    = "demo@activelearn.dev"
	DemoPassword = "demo1234"
)

// GetOrCreateDemoUser returns the demo account, creating it on first run
func GetOrCreateDemoUser(db *gorm.DB) (models.User, error) {
	var user models.User
	err := db.Where("email = ?", DemoEmail).First(&user).Error
	if err == nil {
		logger.Info().Str("email", user.Email).Msg("Demo user found")
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user = models.User{
		Name:     "Demo Student",
		Email:    DemoEmail,
		Password: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		return models.User{}, err
	}

	logger.Info().Str("email", user.Email).Msg("Demo user created")
	return user, nil
}
