package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"bouncer/internal/models"
	"bouncer/internal/repositories"
	"bouncer/internal/utils"
)

var (
	ErrInvalidPayload = errors.New("invalid payload")
	ErrInvalidEmail   = errors.New("invalid email format")
)

// Настройки безопасности (можно вынести в конфиг при желании)
const (
	maxEmailLength     = 255
	maxUserAgentLength = 255
	insertTimeout      = 5 * time.Second
)

// coarse structural filter, not deliverability: local part, "@",
// domain with a dot, no whitespace anywhere
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type SignupResult struct {
	Duplicate bool
}

type SignupService interface {
	Signup(ctx context.Context, rawEmail any, identity, userAgent string) (*SignupResult, error)
	Stats() (admitted, duplicates int64)
}

type signupService struct {
	Repo   repositories.WaitlistRepository
	Alerts *AlertService
	Log    *zap.Logger

	// new vs duplicate is tracked internally only; the HTTP response
	// never distinguishes the two
	admitted   atomic.Int64
	duplicates atomic.Int64
}

func NewSignupService(repo repositories.WaitlistRepository, alerts *AlertService, log *zap.Logger) SignupService {
	return &signupService{Repo: repo, Alerts: alerts, Log: log}
}

func (s *signupService) Signup(ctx context.Context, rawEmail any, identity, userAgent string) (*SignupResult, error) {
	email, err := validateEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	normalized := strings.ToLower(strings.TrimSpace(email))
	entry := &models.WaitlistEntry{
		Email:        normalized,
		EmailHash:    utils.SHA256Hex(normalized),
		SignupIPHash: utils.SHA256Hex(identity),
		UserAgent:    truncate(userAgent, maxUserAgentLength),
	}

	insertCtx, cancel := context.WithTimeout(ctx, insertTimeout)
	defer cancel()

	if err := s.Repo.Insert(insertCtx, entry); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			s.duplicates.Add(1)
			s.Log.Info("[audit][signup] duplicate folded into success",
				zap.String("email_hash", entry.EmailHash))
			return &SignupResult{Duplicate: true}, nil
		}
		s.Log.Error("[audit][signup] insert failed",
			zap.String("email_hash", entry.EmailHash),
			zap.Error(err))
		s.Alerts.Notify(fmt.Sprintf("bouncer: waitlist insert failed: %v", err))
		return nil, fmt.Errorf("waitlist insert: %w", err)
	}

	s.admitted.Add(1)
	s.Log.Info("[audit][signup] admitted",
		zap.String("email_hash", entry.EmailHash),
		zap.String("ip_hash", entry.SignupIPHash))
	return &SignupResult{Duplicate: false}, nil
}

func (s *signupService) Stats() (int64, int64) {
	return s.admitted.Load(), s.duplicates.Load()
}

// validateEmail rejects cheap garbage before any hashing or I/O.
func validateEmail(raw any) (string, error) {
	email, ok := raw.(string)
	if !ok || email == "" || len(email) > maxEmailLength {
		return "", ErrInvalidPayload
	}
	if !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
