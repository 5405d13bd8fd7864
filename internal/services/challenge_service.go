package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"bouncer/internal/utils"
)

// ErrChallengeFailed covers every verification failure mode: missing
// token, verifier unreachable or timing out, verifier saying no, and a
// response we cannot parse. Fail closed, never open.
var ErrChallengeFailed = errors.New("security challenge failed")

type ChallengeService struct {
	Client *utils.TurnstileClient
	Log    *zap.Logger
}

func NewChallengeService(client *utils.TurnstileClient, log *zap.Logger) *ChallengeService {
	return &ChallengeService{Client: client, Log: log}
}

// VerifyToken redeems the caller-supplied challenge token. The caller
// only learns pass/fail; the reason goes to the audit log.
func (s *ChallengeService) VerifyToken(ctx context.Context, token, remoteIP string) error {
	if strings.TrimSpace(token) == "" {
		s.Log.Info("[audit][challenge] missing token")
		return ErrChallengeFailed
	}

	resp, err := s.Client.Verify(ctx, token, remoteIP)
	if err != nil {
		s.Log.Warn("[audit][challenge] verifier call failed", zap.Error(err))
		return ErrChallengeFailed
	}
	if !resp.Success {
		s.Log.Info("[audit][challenge] token rejected",
			zap.Strings("error_codes", resp.ErrorCodes),
			zap.String("hostname", resp.Hostname))
		return ErrChallengeFailed
	}
	return nil
}
