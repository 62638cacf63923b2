package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"foodgram-backend/internal/domains/user/model"
	"foodgram-backend/internal/domains/user/repository"
	"foodgram-backend/internal/shared"
	"foodgram-backend/internal/shared/apperr"
	"foodgram-backend/internal/shared/utils"
)

// bcrypt cost = 12: balance giữa security và performance
const defaultBcryptCost = 12

type userService struct {
	repo    repository.RepositoryInterface
	tokens  TokenIssuer
	revoker TokenRevoker
	cost    int
}

func NewUserService(repo repository.RepositoryInterface, tokens TokenIssuer, revoker TokenRevoker) UserService {
	return &userService{
		repo:    repo,
		tokens:  tokens,
		revoker: revoker,
		cost:    defaultBcryptCost,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserResponse, error) {
	// 1. VALIDATE INPUT
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperr.FromValidation(err)
	}

	// 2. HASH PASSWORD
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 3. PERSIST, unique email/username do DB đảm bảo
	u := &model.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(passwordHash),
		Role:         shared.RoleUser,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", u.ID).Str("username", u.Username).Msg("User registered")

	resp := u.ToResponse(false)
	return &resp, nil
}

func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, apperr.FromValidation(err)
	}

	// 2. FIND USER BY EMAIL
	// Không phân biệt "email không tồn tại" với "sai password"
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	// 3. VERIFY PASSWORD
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	// 4. ISSUE TOKEN
	token, _, err := s.tokens.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	log.Info().Int64("user_id", u.ID).Msg("User logged in")
	return &model.TokenResponse{AuthToken: token}, nil
}

// Logout revoke jti tới khi token hết hạn
func (s *userService) Logout(ctx context.Context, actor shared.Actor, tokenID string, expiresAt time.Time) error {
	if !actor.IsAuthenticated() {
		return apperr.ErrUnauthenticated
	}
	if err := s.revoker.Revoke(ctx, tokenID, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	log.Info().Int64("user_id", actor.UserID).Str("token_id", tokenID).Msg("User logged out")
	return nil
}

// ========================================
// PROFILE
// ========================================

func (s *userService) Me(ctx context.Context, actor shared.Actor) (*model.UserResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, apperr.ErrUnauthenticated
	}
	u, err := s.repo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	resp := u.ToResponse(false)
	return &resp, nil
}

func (s *userService) GetUser(ctx context.Context, actor shared.Actor, id int64) (*model.UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	subscribed, err := s.repo.SubscribedTo(ctx, actor.UserID, []int64{u.ID})
	if err != nil {
		return nil, err
	}
	resp := u.ToResponse(subscribed[u.ID])
	return &resp, nil
}

func (s *userService) ListUsers(ctx context.Context, actor shared.Actor, page, limit int) ([]model.UserResponse, int64, error) {
	users, total, err := s.repo.List(ctx, limit, utils.Offset(page, limit))
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := s.repo.SubscribedTo(ctx, actor.UserID, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]model.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse(subscribed[users[i].ID]))
	}
	return out, total, nil
}

func (s *userService) SetPassword(ctx context.Context, actor shared.Actor, req *model.SetPasswordRequest) error {
	if !actor.IsAuthenticated() {
		return apperr.ErrUnauthenticated
	}

	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return apperr.FromValidation(err)
	}

	// 2. VERIFY CURRENT PASSWORD
	u, err := s.repo.GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperr.Validation(map[string]string{"current_password": "invalid password"})
	}

	// 3. HASH & SAVE
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, u.ID, string(passwordHash)); err != nil {
		return err
	}

	log.Info().Int64("user_id", u.ID).Msg("Password changed")
	return nil
}
