package api

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abelzeko/health-watch/internal/usecases"
)

// TelegramBot handles interactions with the Telegram API. It doubles as the
// outbound alert notifier and as a small query surface for field staff.
type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	useCase *usecases.SurveillanceUseCase
	chatID  int64 // alert notifications go to this chat
}

// NewTelegramBot creates a new Telegram bot handler
func NewTelegramBot(botToken string, chatID int64, useCase *usecases.SurveillanceUseCase) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %v", err)
	}

	return &TelegramBot{
		bot:     bot,
		useCase: useCase,
		chatID:  chatID,
	}, nil
}

// Notify sends an alert message to the configured alert chat
func (t *TelegramBot) Notify(message string) error {
	msg := tgbotapi.NewMessage(t.chatID, "🚨 "+message)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send notification: %v", err)
	}
	return nil
}

// Start begins listening for and handling Telegram messages
func (t *TelegramBot) Start() {
	log.Printf("Authorized on Telegram account %s", t.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	log.Println("Bot is now listening for messages...")

	for update := range updates {
		if update.Message == nil {
			continue
		}

		// Log incoming messages
		log.Printf("Received message from %s (ID: %d): %s",
			update.Message.From.UserName,
			update.Message.From.ID,
			update.Message.Text)

		t.handleMessage(update)
	}
}

// handleMessage processes a Telegram message update
func (t *TelegramBot) handleMessage(update tgbotapi.Update) {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")

	if update.Message.IsCommand() {
		t.handleCommand(update.Message, &msg)
	} else {
		msg.Text = "I don't understand. Use /help to see available commands."
	}

	log.Printf("Sending response to user %s", update.Message.From.UserName)
	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// handleCommand processes commands like /start, /help, etc.
func (t *TelegramBot) handleCommand(message *tgbotapi.Message, msg *tgbotapi.MessageConfig) {
	switch message.Command() {
	case "start":
		log.Printf("Handling /start command for user %s", message.From.UserName)
		msg.Text = "Welcome to the Health Watch bot! Use /alerts to see active alerts or /help for more information."

	case "help":
		log.Printf("Handling /help command for user %s", message.From.UserName)
		msg.Text = "Available commands:\n" +
			"/start - Start the bot\n" +
			"/alerts - Show active alerts\n" +
			"/status [location] - Show the latest water quality for a location\n" +
			"/help - Show this help message"

	case "alerts":
		log.Printf("Handling /alerts command for user %s", message.From.UserName)
		t.handleAlertsCommand(msg)

	case "status":
		args := message.CommandArguments()
		log.Printf("Handling /status command with args '%s' for user %s", args, message.From.UserName)
		t.handleStatusCommand(args, msg)

	default:
		log.Printf("Received unknown command /%s from user %s", message.Command(), message.From.UserName)
		msg.Text = "Unknown command. Use /help to see available commands."
	}
}

// handleAlertsCommand processes the /alerts command
func (t *TelegramBot) handleAlertsCommand(msg *tgbotapi.MessageConfig) {
	alerts, err := t.useCase.ActiveAlerts(10)
	if err != nil {
		msg.Text = "Error fetching alerts. Please try again later."
		log.Printf("Error fetching alerts: %v", err)
		return
	}

	if len(alerts) == 0 {
		msg.Text = "No active alerts. All clear! ✅"
		return
	}

	var result strings.Builder
	result.WriteString("Active alerts:\n\n")
	for _, alert := range alerts {
		result.WriteString(fmt.Sprintf("🚨 %s\n", alert.Type))
		result.WriteString(fmt.Sprintf("📍 Location: %s\n", alert.Location))
		result.WriteString(fmt.Sprintf("💬 %s\n", alert.Message))
		result.WriteString(fmt.Sprintf("🕒 %s\n\n", alert.CreatedAt.Format("2006-01-02 15:04:05")))
	}
	msg.Text = result.String()
}

// handleStatusCommand processes the /status [location] command
func (t *TelegramBot) handleStatusCommand(args string, msg *tgbotapi.MessageConfig) {
	location := strings.TrimSpace(args)
	if location == "" {
		msg.Text = "Please specify a location. Example: /status Riverside"
		return
	}

	obs, err := t.useCase.MostRecentObservation(location)
	if err != nil {
		msg.Text = "Error fetching water data. Please try again later."
		log.Printf("Error fetching observation for %s: %v", location, err)
		return
	}
	if obs == nil {
		msg.Text = fmt.Sprintf("No water quality data found for '%s'.", location)
		return
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Water quality at %s:\n\n", obs.Location))
	result.WriteString(fmt.Sprintf("💧 Turbidity: %.1f NTU\n", obs.Turbidity))
	result.WriteString(fmt.Sprintf("⚗️ pH: %.1f\n", obs.PH))
	result.WriteString(fmt.Sprintf("🦠 Bacteria count: %.0f CFU/100ml\n", obs.BacteriaCount))
	result.WriteString(fmt.Sprintf("🕒 Sampled: %s", obs.ObservedAt.Format("2006-01-02 15:04:05")))
	msg.Text = result.String()
}
