package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"eclat/internal/models"
	"eclat/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles login, logout and token validation. Admin accounts
// carry a bcrypt-hashed password; customers are auto-registered by email at
// first login, as the boutique has no separate signup flow.
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	jwtSecret   []byte
	tokenDurat  time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenDurat:  24 * time.Hour, // Token valid for 24 hours
	}
}

// EnsureAdmin seeds the back-office account if it does not exist yet.
func (s *AuthService) EnsureAdmin(email, password string) error {
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := &models.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
		Wishlist: []string{},
	}
	if err := s.userRepo.Create(admin); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	return nil
}

// LoginAdmin authenticates the back-office account and returns a JWT token.
func (s *AuthService) LoginAdmin(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		// Do not reveal whether the account exists.
		return "", nil, fmt.Errorf("invalid credentials")
	}
	if user.Role != models.RoleAdmin {
		return "", nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	if err := s.sessionRepo.Set(user.ID); err != nil {
		return "", nil, fmt.Errorf("failed to open session: %w", err)
	}
	return token, user, nil
}

// LoginCustomer signs a customer in by email, registering the account on
// first login.
func (s *AuthService) LoginCustomer(email string) (string, *models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", nil, fmt.Errorf("email is required")
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		name := email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
		user = &models.User{
			Name:     name,
			Email:    email,
			Role:     models.RoleCustomer,
			Wishlist: []string{},
		}
		if err := s.userRepo.Create(user); err != nil {
			return "", nil, fmt.Errorf("failed to register customer: %w", err)
		}
	}
	if user.Role == models.RoleAdmin {
		// The admin account must authenticate with its password.
		return "", nil, fmt.Errorf("invalid credentials")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	if err := s.sessionRepo.Set(user.ID); err != nil {
		return "", nil, fmt.Errorf("failed to open session: %w", err)
	}
	return token, user, nil
}

// Logout clears the current session.
func (s *AuthService) Logout() error {
	return s.sessionRepo.Clear()
}

// CurrentUser returns the logged-in user, or nil when nobody is logged in.
func (s *AuthService) CurrentUser() (*models.User, error) {
	return s.sessionRepo.Current()
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":     time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
