package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kasirkita/internal/auth"
	"kasirkita/internal/model"
	"kasirkita/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// authService implements AuthService.
type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a customer account. Self-registration can never
// choose a role.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	return s.register(ctx, req, model.RoleCustomer)
}

// RegisterStaff creates an admin or staff account.
func (s *authService) RegisterStaff(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if req.Role != model.RoleAdmin && req.Role != model.RoleStaff {
		return nil, model.ErrInvalidRole
	}
	return s.register(ctx, req, req.Role)
}

func (s *authService) register(ctx context.Context, req *model.RegisterRequest, role model.Role) (*model.AuthResponse, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	if existing != nil {
		s.logger.Warn().Str("username", req.Username).Msg("username already in use")
		return nil, model.ErrUsernameTaken
	}

	if req.Email != nil && *req.Email != "" {
		existing, err := s.userRepo.GetByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to register user: %w", err)
		}
		if existing != nil {
			s.logger.Warn().Str("email", *req.Email).Msg("email already registered")
			return nil, model.ErrEmailTaken
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("username", user.Username).
		Str("role", string(user.Role)).
		Msg("user registered")

	return &model.AuthResponse{
		Message: "Registration successful",
		Token:   token,
		User:    *user,
	}, nil
}

// Login verifies credentials and issues a token. Unknown usernames and
// wrong passwords produce the same error.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req == nil || req.Username == "" || req.Password == "" {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn().Str("username", req.Username).Msg("login failed")
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user logged in")

	return &model.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    *user,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *authService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func validateRegistration(req *model.RegisterRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeValidation, "Registration request is required")
	}
	if strings.TrimSpace(req.Username) == "" {
		return model.NewDomainError(model.ErrCodeValidation, "Username is required")
	}
	if len(req.Password) < 6 {
		return model.NewDomainError(model.ErrCodeValidation, "Password must be at least 6 characters")
	}
	return nil
}
