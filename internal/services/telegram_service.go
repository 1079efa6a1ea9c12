package services

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dealdesk/internal/models"
	"dealdesk/internal/pipeline"
)

// TelegramService pushes stage-change notices to an agent's chat. A nil
// service (no token configured) is safe to call and does nothing.
type TelegramService struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramService(token string) (*TelegramService, error) {
	if token == "" {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramService{bot: bot}, nil
}

func (t *TelegramService) SendDealClosed(chatID int64, deal *models.Deal, won bool) error {
	if t == nil || chatID == 0 {
		return nil
	}
	var text string
	if won {
		text = fmt.Sprintf("✅ <b>%s</b> closed as won ($%s)", deal.Title, pipeline.FormatDollar(deal.DealValue))
	} else {
		reason := ""
		if deal.LostReason != nil {
			reason = *deal.LostReason
		}
		text = fmt.Sprintf("❌ <b>%s</b> closed as lost: %s", deal.Title, reason)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
