package telegram

import (
	"fmt"
	"strings"
	"time"

	"stock_advisor/models"
	"stock_advisor/pkg/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	MaxMessageLength = 4096 // Telegram单条消息最大长度
)

type TelegramClient struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

var GlobalTelegramClient *TelegramClient

// InitTelegram 初始化Telegram客户端，未配置token时跳过（通知为可选能力）
func InitTelegram() error {
	token := config.GlobalConfig.TelegramBotToken
	if token == "" {
		logrus.Warn("未配置Telegram token，跳过通知初始化")
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return fmt.Errorf("创建Telegram Bot失败: %v", err)
	}

	GlobalTelegramClient = &TelegramClient{
		bot:    bot,
		chatID: config.GlobalConfig.TelegramChatID,
	}

	logrus.Infof("Telegram客户端已初始化: @%s", bot.Self.UserName)
	return nil
}

// SendMessage 发送单条消息
func (t *TelegramClient) SendMessage(text string) error {
	if t == nil || t.bot == nil {
		return fmt.Errorf("Telegram客户端未初始化")
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("发送Telegram消息失败: %v", err)
	}
	return nil
}

// sendMessageSafely 安全发送消息，处理长消息分割
func (t *TelegramClient) sendMessageSafely(text string) error {
	if len(text) <= MaxMessageLength {
		return t.SendMessage(text)
	}

	parts := splitLongMessage(text, MaxMessageLength)
	for i, part := range parts {
		if i > 0 {
			time.Sleep(100 * time.Millisecond) // 避免发送过快
		}
		if err := t.SendMessage(part); err != nil {
			return fmt.Errorf("发送消息第%d部分失败: %v", i+1, err)
		}
	}
	return nil
}

// splitLongMessage 按行分割长消息
func splitLongMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	currentPart := ""
	for _, line := range strings.Split(text, "\n") {
		for len(line) > maxLen {
			if currentPart != "" {
				parts = append(parts, currentPart)
				currentPart = ""
			}
			parts = append(parts, line[:maxLen])
			line = line[maxLen:]
		}
		if len(currentPart)+len(line)+1 > maxLen {
			parts = append(parts, currentPart)
			currentPart = line
		} else if currentPart == "" {
			currentPart = line
		} else {
			currentPart += "\n" + line
		}
	}
	if currentPart != "" {
		parts = append(parts, currentPart)
	}
	return parts
}

// SendServiceStatus 发送服务状态通知
func (t *TelegramClient) SendServiceStatus(status, detail string) error {
	return t.SendMessage(fmt.Sprintf("📢 服务状态: %s\n%s", status, detail))
}

// SendAnalysisAlert 发送分析信号通知，仅在出现BUY信号时由管线触发
func (t *TelegramClient) SendAnalysisAlert(symbol string, result *models.AnalysisResult) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📈 %s 分析信号\n", symbol))
	sb.WriteString(fmt.Sprintf("短期: %s (%d%%)\n%s\n", result.ShortTerm.Signal, result.ShortTerm.Confidence, result.ShortTerm.Summary))
	sb.WriteString(fmt.Sprintf("长期: %s (%d%%)\n%s\n", result.LongTerm.Signal, result.LongTerm.Confidence, result.LongTerm.Summary))

	if result.BuyPrice != nil {
		sb.WriteString(fmt.Sprintf("买入参考: %.0f\n", *result.BuyPrice))
	}
	if result.TargetPrice != nil {
		sb.WriteString(fmt.Sprintf("目标价: %.0f\n", *result.TargetPrice))
	}
	if result.StopLoss != nil {
		sb.WriteString(fmt.Sprintf("止损价: %.0f\n", *result.StopLoss))
	}

	sb.WriteString("⚠️ 风险:\n")
	for _, r := range result.Risks {
		sb.WriteString("- " + r + "\n")
	}

	return t.sendMessageSafely(sb.String())
}
