package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/controller/weekimage"
	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleWeek обрабатывает команду /week: календарь слотов текущей недели
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	h.sendWeek(ctx, b, chatID, h.now().In(h.location))
}

// HandleWeekCallback обрабатывает кнопки переключения недель
func (h *Handlers) HandleWeekCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}
	defer h.answerCallback(ctx, b, callback.ID)

	msg := callback.Message.Message
	if msg == nil || !h.IsStaffChat(msg.Chat.ID) {
		return
	}

	weekOf, err := ParseWeekCallback(callback.Data)
	if err != nil {
		h.logger.Warn("Bad week callback", zap.String("data", callback.Data), zap.Error(err))
		return
	}

	h.sendWeek(ctx, b, msg.Chat.ID, weekOf)

	// Старая картинка заменяется новой
	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: msg.Chat.ID, MessageID: msg.ID}); err != nil {
		h.logger.Debug("Failed to delete previous week message", zap.Error(err))
	}
}

func (h *Handlers) sendWeek(ctx context.Context, b *bot.Bot, chatID int64, weekOf time.Time) {
	slots, err := h.slotService.ListAll(ctx)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Failed to load slots. Try again later.")
		return
	}

	candidates, err := h.candidateService.List(ctx, model.CandidateFilter{})
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Failed to load candidates. Try again later.")
		return
	}

	names := make(map[string]string, len(candidates))
	for _, c := range candidates {
		names[c.ID] = c.FullName
	}

	imageData, err := weekimage.Generate(weekOf, slots, names, h.now().In(h.location))
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Failed to render the calendar.")
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      chatID,
		Photo:       &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(imageData)},
		Caption:     FormatWeekCaption(weekOf, slots),
		ReplyMarkup: weekKeyboard(weekOf),
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: callbackID})
	if err != nil {
		h.logger.Debug("Failed to answer callback", zap.Error(err))
	}
}

func weekKeyboard(weekOf time.Time) *models.InlineKeyboardMarkup {
	return newKeyboard().
		Row(
			button("◀️ Previous", WeekCallbackData(weekOf.AddDate(0, 0, -7))),
			button("Next ▶️", WeekCallbackData(weekOf.AddDate(0, 0, 7))),
		).
		Build()
}

// WeekCallbackData callback data кнопки перехода к неделе
func WeekCallbackData(weekOf time.Time) string {
	return WeekCallbackPrefix + weekOf.Format("2006-01-02")
}

// ParseWeekCallback разбирает callback data вида "week:YYYY-MM-DD"
func ParseWeekCallback(data string) (time.Time, error) {
	date, ok := strings.CutPrefix(data, WeekCallbackPrefix)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid callback data format")
	}
	return time.Parse("2006-01-02", date)
}

// FormatWeekCaption подпись к картинке: сколько слотов недели свободно
func FormatWeekCaption(weekOf time.Time, slots []*model.TimeSlot) string {
	day := time.Date(weekOf.Year(), weekOf.Month(), weekOf.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 7)

	total, free := 0, 0
	for _, slot := range slots {
		t, err := model.ParseSlotID(slot.ID)
		if err != nil || t.Before(start) || !t.Before(end) {
			continue
		}
		total++
		if slot.IsFree() {
			free++
		}
	}

	return fmt.Sprintf("🗓 %s - %s: %d free of %d",
		start.Format("Jan 2"), end.AddDate(0, 0, -1).Format("Jan 2"), free, total)
}
