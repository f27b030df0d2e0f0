package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"qwirkle-server/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

const (
	maxLoginLength    = 30
	minPasswordLength = 3
)

// AuthService issues and checks login tokens.
type AuthService struct {
	DB     *gorm.DB
	Secret []byte
	TTL    time.Duration
	Now    Clock
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration) *AuthService {
	return &AuthService{DB: db, Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

// NormalizeLogin trims and case-folds a login so "Alice" and "alice" are
// the same account.
func NormalizeLogin(login string) string {
	return cases.Fold().String(strings.TrimSpace(login))
}

func (a *AuthService) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// Register creates an account and returns a token for it.
func (a *AuthService) Register(ctx context.Context, login, password string) (string, error) {
	login = NormalizeLogin(login)
	if n := utf8.RuneCountInString(login); n == 0 || n > maxLoginLength {
		return "", invalidInput("login must be 1 to 30 characters")
	}
	if len(password) < minPasswordLength {
		return "", invalidInput("password must be at least 3 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", internal("hash password", err)
	}

	err = a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("login = ?", login).Count(&n).Error; err != nil {
			return internal("check login", err)
		}
		if n > 0 {
			return ErrLoginTaken
		}
		if err := tx.Create(&models.User{Login: login, PasswordHash: string(hash)}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrLoginTaken
			}
			return internal("create user", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	log.Info().Str("login", login).Msg("user registered")
	return a.issue(login)
}

// Login checks credentials and returns a fresh token.
func (a *AuthService) Login(ctx context.Context, login, password string) (string, error) {
	login = NormalizeLogin(login)
	var u models.User
	err := a.DB.WithContext(ctx).Where("login = ?", login).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrBadCredentials
	}
	if err != nil {
		return "", internal("load user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrBadCredentials
	}
	return a.issue(login)
}

// Resolve maps a token back to the login it was issued for.
func (a *AuthService) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrUnauthenticated
	}

	var n int64
	if err := a.DB.WithContext(ctx).Model(&models.User{}).Where("login = ?", claims.Subject).Count(&n).Error; err != nil {
		return "", internal("load user", err)
	}
	if n == 0 {
		return "", ErrUnauthenticated
	}
	return claims.Subject, nil
}

func (a *AuthService) issue(login string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   login,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.TTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.Secret)
	if err != nil {
		return "", internal(fmt.Sprintf("sign token for %s", login), err)
	}
	return signed, nil
}
