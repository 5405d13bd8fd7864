package services

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// AlertService pushes operational notices (startup misconfiguration,
// persistence failures) to an ops Telegram chat. Optional: a nil
// receiver is a no-op, so call sites never have to check.
type AlertService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zap.Logger
}

func NewAlertService(token string, chatID int64, log *zap.Logger) *AlertService {
	if token == "" || chatID == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Warn("[alerts] telegram init failed, alerts disabled", zap.Error(err))
		return nil
	}
	return &AlertService{bot: bot, chatID: chatID, log: log}
}

func (s *AlertService) Notify(text string) {
	if s == nil {
		return
	}
	msg := tgbotapi.NewMessage(s.chatID, text)
	if _, err := s.bot.Send(msg); err != nil {
		s.log.Warn("[alerts] telegram send failed", zap.Error(err))
	}
}
