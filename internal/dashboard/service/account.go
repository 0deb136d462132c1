package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aussiebroadwan/batterydash/internal/dashboard/domain"
	"github.com/aussiebroadwan/batterydash/internal/dashboard/store"
	"github.com/aussiebroadwan/batterydash/pkg/cryptox"
	"github.com/aussiebroadwan/batterydash/pkg/idx"
	"github.com/aussiebroadwan/batterydash/pkg/slogx"
)

// Outcome is the declared result of a credential operation. Only
// OutcomeDependencyFailure comes with a non-nil error.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeInvalidCredentials
	OutcomeAlreadyExists
	OutcomeDependencyFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeInvalidCredentials:
		return "invalid_credentials"
	case OutcomeAlreadyExists:
		return "already_exists"
	case OutcomeDependencyFailure:
		return "dependency_failure"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// AuthResult carries a token only when Outcome is OutcomeSuccess.
type AuthResult struct {
	Outcome Outcome
	Token   IssuedToken
}

// Log event names.
const (
	EventRegisterSuccess        = "RegisterSuccess"
	EventRegisterUserExists     = "RegisterFailed_UserExists"
	EventRegisterError          = "RegisterFailed_Error"
	EventLoginSuccess           = "LoginSuccess"
	EventLoginUserNotFound      = "LoginFailed_UserNotFound"
	EventLoginIncorrectPassword = "LoginFailed_IncorrectPassword"
	EventLoginError             = "LoginFailed_Error"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) error
}

type RegisterInput struct {
	Email       string
	DisplayName string
	Password    string
	Role        string
}

type LoginInput struct {
	Email    string
	Password string
}

// AccountService registers users and authenticates them with a password.
type AccountService struct {
	Store  store.Store
	Hasher PasswordHasher
	Tokens TokenIssuer

	dummyOnce sync.Once
	dummyHash string
}

var errUserExists = errors.New("user exists")

// Register creates a user and returns a session token for it.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = domain.DefaultRole
	}
	l := slogx.FromContext(ctx).With(slog.String("email", slogx.Mask(email)))

	// Hash outside the transaction so the write lock is held only for the
	// check and the insert.
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		l.Error("registration failed", slog.String("event", EventRegisterError), slog.Any("err", err))
		return AuthResult{Outcome: OutcomeDependencyFailure}, fmt.Errorf("register: hash password: %w", err)
	}

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		exists, err := tx.Users().ExistsByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return errUserExists
		}

		id := idx.New()
		user = domain.User{
			ID:           id.String(),
			Email:        email,
			DisplayName:  strings.TrimSpace(in.DisplayName),
			PasswordHash: hash,
			Role:         role,
			CreatedAt:    id.Time(),
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	switch {
	case errors.Is(err, errUserExists), errors.Is(err, store.ErrAlreadyExists):
		l.Info("registration rejected", slog.String("event", EventRegisterUserExists))
		return AuthResult{Outcome: OutcomeAlreadyExists}, nil
	case err != nil:
		l.Error("registration failed", slog.String("event", EventRegisterError), slog.Any("err", err))
		return AuthResult{Outcome: OutcomeDependencyFailure}, fmt.Errorf("register: %w", err)
	}

	tok, err := s.Tokens.Issue(ctx, user)
	if err != nil {
		l.Error("registration token failed", slog.String("event", EventRegisterError), slog.Any("err", err))
		return AuthResult{Outcome: OutcomeDependencyFailure}, fmt.Errorf("register: %w", err)
	}

	l.Info("user registered", slog.String("event", EventRegisterSuccess), slog.String("user_id", user.ID))
	return AuthResult{Outcome: OutcomeSuccess, Token: tok}, nil
}

// Login checks the password for email. Unknown emails and wrong passwords
// produce the same result.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	l := slogx.FromContext(ctx).With(slog.String("email", slogx.Mask(email)))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.burnVerify(in.Password)
		l.Info("login rejected", slog.String("event", EventLoginUserNotFound))
		return AuthResult{Outcome: OutcomeInvalidCredentials}, nil
	case err != nil:
		l.Error("login lookup failed", slog.String("event", EventLoginError), slog.Any("err", err))
		return AuthResult{Outcome: OutcomeDependencyFailure}, fmt.Errorf("login: %w", err)
	}

	if err := s.Hasher.Verify(in.Password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("login rejected", slog.String("event", EventLoginIncorrectPassword))
			return AuthResult{Outcome: OutcomeInvalidCredentials}, nil
		}
		l.Error("login verify failed", slog.String("event", EventLoginError), slog.Any("err", err))
		return AuthResult{Outcome: OutcomeDependencyFailure}, fmt.Errorf("login: %w", err)
	}

	tok, err := s.Tokens.Issue(ctx, user)
	if err != nil {
		l.Error("login token failed", slog.String("event", EventLoginError), slog.Any("err", err))
		return AuthResult{Outcome: OutcomeDependencyFailure}, fmt.Errorf("login: %w", err)
	}

	l.Info("user logged in", slog.String("event", EventLoginSuccess))
	return AuthResult{Outcome: OutcomeSuccess, Token: tok}, nil
}

// burnVerify spends the same hashing work as a real password check so that
// unknown emails cannot be told apart by response time.
func (s *AccountService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash("not-a-real-password")
	})
	if s.dummyHash != "" {
		_ = s.Hasher.Verify(password, s.dummyHash)
	}
}
