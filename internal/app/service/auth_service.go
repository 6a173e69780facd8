package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/narayanji/distributor-app/config"
	"github.com/narayanji/distributor-app/internal/app/model"
	"github.com/narayanji/distributor-app/internal/app/repository"
	"github.com/narayanji/distributor-app/pkg/logger"
	"github.com/narayanji/distributor-app/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const (
	otpLength = 6
	otpTTL    = 5 * time.Minute
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,14}$`)

// OTPStore holds one-time codes between request and verification.
type OTPStore interface {
	Save(ctx context.Context, phone, code string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (string, error)
	Delete(ctx context.Context, phone string) error
}

// Session is what a successful login hands back to the client.
type Session struct {
	AccessToken string `json:"access_token"`
	Name        string `json:"name"`
	Role        string `json:"role"`
}

type AuthService interface {
	// RequestOTP generates a one-time code for the phone number. Delivery is
	// out of band; in development the code is written to the log.
	RequestOTP(ctx context.Context, phone string) error

	// VerifyOTP checks the code and returns a session token. First-time phone
	// numbers get a distributor account created on the spot.
	VerifyOTP(ctx context.Context, phone, code, name string) (*Session, *model.User, error)

	// AdminLogin authenticates a back-office admin by email and password.
	AdminLogin(email, password string) (*Session, *model.User, error)

	GetUser(userID uint) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	otpStore OTPStore
	jwtCfg   *config.JWTConfig
	devMode  bool
}

func NewAuthService(userRepo repository.UserRepository, otpStore OTPStore, jwtCfg *config.JWTConfig, devMode bool) AuthService {
	return &authService{
		userRepo: userRepo,
		otpStore: otpStore,
		jwtCfg:   jwtCfg,
		devMode:  devMode,
	}
}

func (s *authService) RequestOTP(ctx context.Context, phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}

	code := util.GenerateOTP(otpLength)
	if err := s.otpStore.Save(ctx, phone, code, otpTTL); err != nil {
		logger.Error("Failed to store OTP", err, map[string]interface{}{
			"phone": phone,
		})
		return err
	}

	if s.devMode {
		// No SMS gateway in development; surface the code in the log.
		logger.Info("OTP generated (dev mode)", map[string]interface{}{
			"phone": phone,
			"code":  code,
		})
	} else {
		logger.Info("OTP generated", map[string]interface{}{
			"phone": phone,
		})
	}
	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, phone, code, name string) (*Session, *model.User, error) {
	stored, err := s.otpStore.Get(ctx, phone)
	if err != nil || stored == "" || stored != code {
		logger.Warn("OTP verification failed", map[string]interface{}{
			"phone": phone,
		})
		return nil, nil, ErrInvalidOTP
	}

	// One shot per code.
	if err := s.otpStore.Delete(ctx, phone); err != nil {
		logger.Warn("Failed to delete consumed OTP", map[string]interface{}{
			"phone": phone,
		})
	}

	user, err := s.userRepo.FindByPhone(phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &model.User{
			Phone: phone,
			Name:  name,
			Role:  model.RoleDistributor,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, nil, err
		}
		logger.Info("New distributor registered", map[string]interface{}{
			"phone": phone,
		})
	} else if err != nil {
		return nil, nil, err
	} else if name != "" && user.Name != name {
		user.Name = name
		if err := s.userRepo.Update(user); err != nil {
			return nil, nil, err
		}
	}

	return s.issueSession(user)
}

func (s *authService) AdminLogin(email, password string) (*Session, *model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if user.Role != model.RoleAdmin || !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Admin login failed", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrInvalidCredentials
	}

	return s.issueSession(user)
}

func (s *authService) GetUser(userID uint) (*model.User, error) {
	return s.userRepo.FindByID(userID)
}

func (s *authService) issueSession(user *model.User) (*Session, *model.User, error) {
	token, err := util.GenerateToken(user.ID, user.Phone, string(user.Role), s.jwtCfg.Secret, s.jwtCfg.AccessTokenExpiry)
	if err != nil {
		logger.Error("Failed to generate access token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("Session issued", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return &Session{
		AccessToken: token,
		Name:        user.Name,
		Role:        string(user.Role),
	}, user, nil
}
