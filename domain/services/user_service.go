package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clubledger/domain/entities"
	"clubledger/domain/errs"
	"clubledger/domain/events"
	"clubledger/domain/interfaces"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// ErrInvalidCredentials is returned when an email and password do not match an active account
var ErrInvalidCredentials = errors.New("invalid email or password")

type userService struct {
	userRepo       interfaces.UserRepository
	eventPublisher interfaces.EventPublisher
	hashCost       int
}

// NewUserService creates a new account service. hashCost of zero uses bcrypt.DefaultCost.
func NewUserService(userRepo interfaces.UserRepository, eventPublisher interfaces.EventPublisher, hashCost int) interfaces.UserService {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	return &userService{
		userRepo:       userRepo,
		eventPublisher: eventPublisher,
		hashCost:       hashCost,
	}
}

// Register creates an account with a hashed password
func (s *userService) Register(ctx context.Context, input interfaces.NewUser) (*entities.User, error) {
	name := strings.TrimSpace(input.Name)
	email := entities.NormalizeEmail(input.Email)

	if name == "" {
		return nil, errs.Validation("name", "is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, errs.Validation("email", "%q is not a valid email address", input.Email)
	}
	if len(input.Password) < minPasswordLength {
		return nil, errs.Validation("password", "must be at least %d characters", minPasswordLength)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, errs.Validation("email", "%s is already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	qualification := strings.TrimSpace(input.Qualification)
	if qualification == "" {
		qualification = entities.DefaultQualification
	}

	user := &entities.User{
		Name:                name,
		Email:               email,
		Phone:               input.Phone,
		PasswordHash:        string(hash),
		Qualification:       qualification,
		QualificationDetail: input.QualificationDetail,
		IsActive:            true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.eventPublisher.Publish(events.UserRegisteredEvent{
		UserID: user.ID,
		Email:  user.Email,
	}); err != nil {
		log.WithError(err).Error("Failed to publish user registered event")
	}

	log.WithFields(log.Fields{
		"userID": user.ID,
		"email":  user.Email,
	}).Info("User registered")

	return user, nil
}

// GetUser returns a user by ID
func (s *userService) GetUser(ctx context.Context, userID int64) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errs.NotFound("user", userID)
	}
	return user, nil
}

// VerifyPassword returns the user when email and password match an active account
func (s *userService) VerifyPassword(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, entities.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// SetActive activates or deactivates an account
func (s *userService) SetActive(ctx context.Context, userID int64, active bool) error {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"active": active,
	}).Info("User active flag changed")
	return nil
}
