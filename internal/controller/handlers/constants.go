package handlers

const (
	// Сколько элементов показывать в списках
	SlotsListLimit      = 15
	CandidatesListLimit = 10

	// Лимит длины сообщения Telegram
	MaxMessageLength = 4096

	// Префикс callback data навигации по неделям: "week:YYYY-MM-DD"
	WeekCallbackPrefix = "week:"
)
