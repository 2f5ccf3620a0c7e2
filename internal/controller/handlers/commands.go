package handlers

import (
	"context"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Commands:\n\n" +
	"/slots - Free interview slots\n" +
	"/week - Weekly calendar of slots\n" +
	"/candidates - Latest candidates\n" +
	"/report - Booking summary\n" +
	"/help - Show this help\n\n" +
	"New bookings are posted to this chat automatically."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	h.sendMessage(ctx, b, chatID, "👋 Interview scheduler bot.\n\n"+helpText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	h.sendMessage(ctx, b, chatID, helpText)
}

// HandleSlots обрабатывает команду /slots
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	availability, err := h.slotService.Availability(ctx)
	if err != nil {
		h.logger.Error("Failed to get availability", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Failed to load slots. Try again later.")
		return
	}

	h.sendMessage(ctx, b, chatID, FormatAvailability(availability, SlotsListLimit))
}

// HandleCandidates обрабатывает команду /candidates
func (h *Handlers) HandleCandidates(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	candidates, err := h.candidateService.List(ctx, model.CandidateFilter{})
	if err != nil {
		h.logger.Error("Failed to list candidates", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Failed to load candidates. Try again later.")
		return
	}

	h.sendMessage(ctx, b, chatID, FormatCandidates(candidates, CandidatesListLimit))
}

// HandleReport обрабатывает команду /report
func (h *Handlers) HandleReport(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := h.requireStaff(ctx, b, update)
	if !ok {
		return
	}

	stats, err := h.reportService.Stats(ctx)
	if err != nil {
		h.logger.Error("Failed to build report", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Failed to build the report. Try again later.")
		return
	}

	h.sendMessage(ctx, b, chatID, FormatReport(stats))
}
