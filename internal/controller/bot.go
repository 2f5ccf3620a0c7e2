package controller

import (
	"context"
	"errors"

	"github.com/Freeeeeet/interview_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// BotController бот для команды найма: команды просмотра и уведомления о бронированиях
type BotController struct {
	bot          *bot.Bot
	handlers     *handlers.Handlers
	staffChatIDs []int64
	logger       *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	cmdHandlers *handlers.Handlers,
	staffChatIDs []int64,
	logger *zap.Logger,
) *BotController {
	return &BotController{
		bot:          botInstance,
		handlers:     cmdHandlers,
		staffChatIDs: staffChatIDs,
		logger:       logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/slots", bot.MatchTypeExact, c.handlers.HandleSlots)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypeExact, c.handlers.HandleWeek)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/candidates", bot.MatchTypeExact, c.handlers.HandleCandidates)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/report", bot.MatchTypeExact, c.handlers.HandleReport)

	// Навигация по неделям
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, handlers.WeekCallbackPrefix, bot.MatchTypePrefix, c.handlers.HandleWeekCallback)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "slots", Description: "🗓 Free interview slots"},
		{Command: "week", Description: "📅 Weekly calendar"},
		{Command: "candidates", Description: "👥 Latest candidates"},
		{Command: "report", Description: "📊 Booking summary"},
		{Command: "help", Description: "❓ Help"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}

// SendBookingNotification рассылает новое бронирование во все чаты сотрудников.
// Возвращает объединённую ошибку по чатам, куда отправить не удалось
func (c *BotController) SendBookingNotification(ctx context.Context, reservation *model.Reservation) error {
	text := handlers.FormatBookingNotification(reservation)

	var errs []error
	for _, chatID := range c.staffChatIDs {
		_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   text,
		})
		if err != nil {
			c.logger.Warn("Failed to notify staff chat",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
