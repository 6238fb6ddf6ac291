package account

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/docspot/internal/apperr"
	"github.com/hackgods/docspot/internal/auth"
	"github.com/hackgods/docspot/internal/notify"
)

var (
	ErrUserExists      = apperr.BusinessRule("User already exists")
	ErrUserNotFound    = apperr.NotFound("User not found")
	ErrInvalidOTP      = apperr.BusinessRule("Invalid OTP")
	ErrBlocked         = apperr.BusinessRule("Your account is blocked. Contact Admin.")
	ErrNotVerified     = apperr.BusinessRule("Account not verified. Please register again to verify.")
	ErrInvalidPassword = apperr.BusinessRule("Invalid password")
)

// TokenIssuer signs bearer tokens for an account.
type TokenIssuer interface {
	Issue(accountID uuid.UUID) (string, error)
}

type Service struct {
	repo     Repository
	tokens   TokenIssuer
	notifier notify.Emitter
	otp      func() (string, error)
}

func NewService(repo Repository, tokens TokenIssuer, notifier notify.Emitter) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		notifier: notifier,
		otp:      newOTP,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account, or refreshes one that never
// completed verification, and emails a one-time code.
func (s *Service) Register(ctx context.Context, reg Registration) error {
	email := normalizeEmail(reg.Email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return apperr.Persistence("load account", err)
	}
	if existing != nil && existing.IsVerified {
		return ErrUserExists
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return apperr.Persistence("hash password", err)
	}
	code, err := s.otp()
	if err != nil {
		return apperr.Persistence("generate otp", err)
	}

	if existing != nil {
		err = s.repo.ResetUnverified(ctx, existing.ID, reg.Name, reg.Phone, hash, code)
		if errors.Is(err, ErrNotFound) {
			// verified between the read and the write
			return ErrUserExists
		}
		if err != nil {
			return apperr.Persistence("update registration", err)
		}
	} else {
		_, err = s.repo.Create(ctx, Account{
			Name:         reg.Name,
			Email:        email,
			PasswordHash: hash,
			Phone:        reg.Phone,
			OTP:          &code,
		})
		if errors.Is(err, ErrEmailTaken) {
			return ErrUserExists
		}
		if err != nil {
			return apperr.Persistence("create account", err)
		}
	}

	s.notifier.Email(email, "DocSpot Verification Code", "Your verification code is: "+code)
	return nil
}

// VerifyOTP completes a registration and returns a bearer token.
func (s *Service) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	acc, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", apperr.Persistence("load account", err)
	}

	otp = strings.TrimSpace(otp)
	if acc.OTP == nil || otp == "" || *acc.OTP != otp {
		return "", ErrInvalidOTP
	}

	acc, err = s.repo.MarkVerified(ctx, acc.ID, otp)
	if errors.Is(err, ErrNotFound) {
		return "", ErrInvalidOTP
	}
	if err != nil {
		return "", apperr.Persistence("verify account", err)
	}

	token, err := s.tokens.Issue(acc.ID)
	if err != nil {
		return "", apperr.Persistence("issue token", err)
	}

	s.notifier.Email(acc.Email, "Welcome to DocSpot", "Thank you for verifying your account!")
	return token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	acc, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", apperr.Persistence("load account", err)
	}

	if acc.IsBlocked {
		return "", ErrBlocked
	}
	if !acc.IsVerified {
		return "", ErrNotVerified
	}
	if !auth.CheckPassword(acc.PasswordHash, password) {
		return "", ErrInvalidPassword
	}

	token, err := s.tokens.Issue(acc.ID)
	if err != nil {
		return "", apperr.Persistence("issue token", err)
	}
	return token, nil
}

// Profile loads an account with its doctor status. Password hash and OTP
// never serialize.
func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*Account, error) {
	acc, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Persistence("load account", err)
	}
	return acc, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, name, phone string) (*Account, error) {
	acc, err := s.repo.UpdateProfile(ctx, id, strings.TrimSpace(name), strings.TrimSpace(phone))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Persistence("update profile", err)
	}
	return acc, nil
}

// MarkAllNotificationsSeen moves every unseen entry to the end of the seen
// list, in order, for this account only.
func (s *Service) MarkAllNotificationsSeen(ctx context.Context, id uuid.UUID) (*Account, error) {
	acc, err := s.repo.MarkAllNotificationsSeen(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Persistence("mark notifications seen", err)
	}
	return acc, nil
}

func (s *Service) DeleteAllNotifications(ctx context.Context, id uuid.UUID) (*Account, error) {
	acc, err := s.repo.DeleteAllNotifications(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Persistence("delete notifications", err)
	}
	return acc, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Persistence("list accounts", err)
	}
	return accounts, nil
}

// SetBlocked flips the block flag and records an in-app notice in the same
// update, then emails the account.
func (s *Service) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) (*Account, error) {
	verb := "unblocked"
	if blocked {
		verb = "blocked"
	}
	n := notify.Notification{
		Type:        notify.TypeAccountBlockChanged,
		Message:     "Your account has been " + verb + " by an administrator",
		OnClickPath: "/notification",
	}

	acc, err := s.repo.SetBlocked(ctx, id, blocked, n)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Persistence("update block status", err)
	}

	s.notifier.Email(acc.Email, "DocSpot Account Update", n.Message+".")
	return acc, nil
}

// EnsureAdmin creates a verified administrator from configured credentials
// when none exists yet. It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	exists, err := s.repo.AdminExists(ctx)
	if err != nil {
		return false, apperr.Persistence("check admin", err)
	}
	if exists {
		return false, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, apperr.Persistence("hash password", err)
	}

	_, err = s.repo.Create(ctx, Account{
		Name:         "Super Admin",
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
		IsVerified:   true,
	})
	if errors.Is(err, ErrEmailTaken) {
		log.Warn().Str("email", email).Msg("admin bootstrap skipped: email already registered to a non-admin account")
		return false, nil
	}
	if err != nil {
		return false, apperr.Persistence("create admin", err)
	}

	log.Info().Str("email", email).Msg("bootstrap administrator created")
	return true, nil
}
