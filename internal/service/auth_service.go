package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"growthcheck/internal/models"
	"growthcheck/internal/security"
	"growthcheck/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Session is what a caregiver receives after authenticating
type Session struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	Caregiver *models.Caregiver `json:"caregiver"`
}

// AuthService handles caregiver accounts and bearer tokens
type AuthService struct {
	caregivers CaregiverStore
	tokens     *security.TokenManager
}

// NewAuthService creates a new auth service
func NewAuthService(caregivers CaregiverStore, tokens *security.TokenManager) *AuthService {
	return &AuthService{
		caregivers: caregivers,
		tokens:     tokens,
	}
}

// Register creates a caregiver account and signs them in
func (s *AuthService) Register(email, password, name string) (*Session, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)

	// Validate inputs
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	// Check if email already exists
	existing, err := s.caregivers.GetCaregiverByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing caregiver: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	caregiver, err := s.caregivers.CreateCaregiver(email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create caregiver: %w", err)
	}

	return s.newSession(caregiver)
}

// Login authenticates a caregiver and issues a token
func (s *AuthService) Login(email, password string) (*Session, error) {
	caregiver, err := s.caregivers.GetCaregiverByEmail(normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get caregiver: %w", err)
	}
	if caregiver == nil {
		return nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, caregiver.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.newSession(caregiver)
}

// Authenticate resolves a bearer token to its caregiver
func (s *AuthService) Authenticate(token string) (*models.Caregiver, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	caregiver, err := s.caregivers.GetCaregiverByID(claims.CaregiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get caregiver: %w", err)
	}
	if caregiver == nil {
		return nil, security.ErrInvalidToken
	}
	return caregiver, nil
}

func (s *AuthService) newSession(caregiver *models.Caregiver) (*Session, error) {
	token, expires, err := s.tokens.Issue(caregiver.ID, caregiver.Email)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, Caregiver: caregiver}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
