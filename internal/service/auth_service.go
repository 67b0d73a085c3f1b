package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/session"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

type loginBackend interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

type workspaceDropper interface {
	Drop(sessionID string)
}

// LoginResult is a fresh session and its signed cookie value.
type LoginResult struct {
	User   *session.User
	Cookie string
}

// AuthService creates and ends operator sessions. Credentials are verified by the
// institution backend; the gateway only keeps the returned user object.
type AuthService struct {
	backend    loginBackend
	store      session.Store
	signer     *session.Signer
	workspaces workspaceDropper
	auditor    *AuditService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(backend loginBackend, store session.Store, signer *session.Signer, workspaces workspaceDropper, auditor *AuditService, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{
		backend:    backend,
		store:      store,
		signer:     signer,
		workspaces: workspaces,
		auditor:    auditor,
		validator:  validate,
		logger:     logger,
	}
}

// Login authenticates against the backend and stores the session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "user id, password and role are required")
	}

	resp, err := s.backend.Login(ctx, req)
	if err != nil {
		if appErrors.HasCode(err, appErrors.ErrRemote.Code) {
			appErr := appErrors.FromError(err)
			if appErr.Status == 400 || appErr.Status == 401 || appErr.Status == 403 || appErr.Status == 404 {
				return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, appErr.Message)
			}
		}
		return nil, err
	}

	user, err := session.NewUser(req.Role, resp.User)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, user, s.signer.TTL()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store session")
	}
	cookie, err := s.signer.Issue(user)
	if err != nil {
		_ = s.store.Delete(ctx, user.ID)
		return nil, err
	}

	s.auditor.Record(session.WithContext(ctx, user), models.AuditActionLogin, "auth", req.UserID, map[string]string{"role": req.Role})
	s.logger.Info("session created", zap.String("session_id", user.ID), zap.String("role", user.Role))
	return &LoginResult{User: user, Cookie: cookie}, nil
}

// Logout drops the session in ctx and unmounts its views. Logging out without a
// session is not an error.
func (s *AuthService) Logout(ctx context.Context) error {
	user, err := session.FromContext(ctx)
	if err != nil {
		return nil
	}
	if s.workspaces != nil {
		s.workspaces.Drop(user.ID)
	}
	if err := s.store.Delete(ctx, user.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to drop session")
	}
	s.logger.Info("session ended", zap.String("session_id", user.ID))
	return nil
}
