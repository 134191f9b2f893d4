package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/sacred-word/core/internal/models"
	"github.com/sacred-word/core/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenTTL       = 14 * 24 * time.Hour
	apiTokenPrefix = "swt"
)

var (
	errUserNotFound       = errors.New("user not found")
	errWrongPassword      = errors.New("wrong password")
	errOwnerAlreadyExists = errors.New("owner already exists")
	errPasswordSameAsOld  = errors.New("new password must differ from the old one")
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) IsRegistered() bool {
	var count int64
	s.db.Model(&models.UserModel{}).Count(&count)
	return count > 0
}

// Register creates the owner account. Only one account can exist.
func (s *Service) Register(username, password, name string) (*models.UserModel, error) {
	var count int64
	s.db.Model(&models.UserModel{}).Count(&count)
	if count > 0 {
		return nil, errOwnerAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = username
	}
	u := models.UserModel{Username: username, Password: string(hash), Name: name}
	if err := s.db.Create(&u).Error; err != nil {
		var mysqlErr *mysqlDriver.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, errOwnerAlreadyExists
		}
		return nil, err
	}
	return &u, nil
}

// Login verifies credentials and issues a JWT.
func (s *Service) Login(username, password, ip string) (string, *models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Flat response time for unknown accounts.
			time.Sleep(3 * time.Second)
			return "", nil, errUserNotFound
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, errWrongPassword
	}

	now := time.Now()
	s.db.Model(&u).Updates(map[string]interface{}{
		"last_login_time": now,
		"last_login_ip":   ip,
	})
	u.LastLoginTime = &now
	u.LastLoginIP = ip

	token, err := jwt.Sign(u.ID, tokenTTL)
	return token, &u, err
}

func (s *Service) ChangePassword(id, oldPwd, newPwd string) error {
	var u models.UserModel
	if err := s.db.Select("id, password").First(&u, "id = ?", id).Error; err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(oldPwd)); err != nil {
		return errWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(newPwd)); err == nil {
		return errPasswordSameAsOld
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.Model(&u).Update("password", string(hash)).Error
}

// CreateAPIToken mints a long-lived token for headless clients.
func (s *Service) CreateAPIToken(userID, name string, expiredAt *time.Time) (*models.APIToken, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	token := models.APIToken{
		UserID:    userID,
		Name:      name,
		Token:     apiTokenPrefix + hex.EncodeToString(raw),
		ExpiredAt: expiredAt,
	}
	return &token, s.db.Create(&token).Error
}

func (s *Service) ListAPITokens(userID string) ([]models.APIToken, error) {
	var tokens []models.APIToken
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&tokens).Error
	return tokens, err
}

func (s *Service) DeleteAPIToken(userID, tokenID string) error {
	return s.db.Where("id = ? AND user_id = ?", tokenID, userID).Delete(&models.APIToken{}).Error
}
