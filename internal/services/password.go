package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordAlphabet leaves out 0, O, 1, l and I
const PasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

const TemporaryPasswordLength = 8

func GenerateTemporaryPassword() (string, error) {
	max := big.NewInt(int64(len(PasswordAlphabet)))
	var b strings.Builder
	b.Grow(TemporaryPasswordLength)
	for i := 0; i < TemporaryPasswordLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		b.WriteByte(PasswordAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// PasswordResetter rotates an account password and emails the new one
type PasswordResetter struct {
	db       *gorm.DB
	mailer   Mailer
	generate func() (string, error)
}

func NewPasswordResetter(db *gorm.DB, mailer Mailer) *PasswordResetter {
	return &PasswordResetter{db: db, mailer: mailer, generate: GenerateTemporaryPassword}
}

// Reset reports whether an account matched. An unknown email is not an error.
func (r *PasswordResetter) Reset(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := r.db.WithContext(ctx).Where("LOWER(email) = ?", email).First(&user).Error
	if isNotFound(err) {
		logger.Info().Str("email", email).Msg("Temporary password requested for unknown account")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup user: %w", err)
	}

	password, err := r.generate()
	if err != nil {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	if err := r.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"password":              string(hash),
		"temporary_password_at": now,
	}).Error; err != nil {
		return false, fmt.Errorf("update password: %w", err)
	}

	if err := r.mailer.Send(ctx, user.Email, "Sua senha temporária - ActiveLearn Hub", temporaryPasswordHTML(password)); err != nil {
		return false, fmt.Errorf("send temporary password: %w", err)
	}

	logger.Info().Str("user_id", user.ID).Msg("Temporary password issued")
	return true, nil
}

func temporaryPasswordHTML(password string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #2563eb;">ActiveLearn Hub</h1>
  <p>Você solicitou uma senha temporária. Use a senha abaixo para fazer login:</p>
  <div style="border: 2px solid #e5e7eb; border-radius: 6px; padding: 15px; text-align: center;">
    <code style="font-size: 18px; font-weight: bold; letter-spacing: 2px;">%s</code>
  </div>
  <p style="color: #ef4444; font-size: 14px;"><strong>Importante:</strong> altere esta senha após fazer login.</p>
</div>`, password)
}
