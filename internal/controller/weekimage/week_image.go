package weekimage

import (
	"bytes"
	"image/color"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// SlotDuration длительность одного собеседования на картинке
const SlotDuration = time.Hour

// Константы размеров и отступов
const (
	imageWidth       = 980
	imageHeight      = 640
	headerHeight     = 64
	leftLabelsWidth  = 56
	legendWidth      = 112
	dayPaddingX      = 6
	minSlotHeight    = 8.0
	slotBorderRadius = 5.0
	shadowOffset     = 2.0
	totalDaysInWeek  = 7
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 9
	defaultMaxHour   = 18
	maxNameLen       = 16
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 125}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{220, 220, 220, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	slotFreeColor      = color.RGBA{133, 193, 85, 220}
	slotTakenColor     = color.RGBA{255, 182, 193, 255}
	slotTextColor      = color.RGBA{20, 24, 28, 230}
	slotTakenTextColor = color.RGBA{120, 40, 50, 255}
	slotShadowColor    = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

type weekBounds struct {
	start time.Time
	end   time.Time
}

type hourRange struct {
	start int
	end   int
	total int
}

// placedSlot слот с разобранным временем начала
type placedSlot struct {
	slot  *model.TimeSlot
	start time.Time
}

// Generate рисует PNG с неделей, в которую попадает weekOf.
// names сопоставляет id кандидата с именем для занятых слотов,
// now нужен для подсветки текущего дня и времени
func Generate(weekOf time.Time, slots []*model.TimeSlot, names map[string]string, now time.Time) ([]byte, error) {
	week := normalizeToWeekBounds(weekOf)
	today := normalizeToDay(now)
	highlightToday := isTodayInWeek(today, week)

	slotsByDay := groupSlotsByDay(slots, week)
	hours := calculateHourRange(slotsByDay)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, week)
	drawHourLabels(dc, hours, cellHeight)

	day := week.start
	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, highlightToday && isSameDay(day, today))
		drawDayHeader(dc, day, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, ps := range slotsByDay[day.Format("2006-01-02")] {
			drawSlot(dc, ps, names, x, y, dayWidth, hours, cellHeight)
		}

		day = day.AddDate(0, 0, 1)
	}

	if highlightToday {
		drawCurrentTimeLine(dc, now, hours, cellHeight, dayWidth)
	}
	drawLegend(dc, dayWidth)

	return encodeImage(dc)
}

// normalizeToWeekBounds нормализует дату к границам недели (Пн-Вс)
func normalizeToWeekBounds(date time.Time) weekBounds {
	normalized := normalizeToDay(date)

	daysSinceMonday := int(normalized.Weekday()) - 1
	if normalized.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}

	start := normalized.AddDate(0, 0, -daysSinceMonday)
	return weekBounds{start: start, end: start.AddDate(0, 0, 6)}
}

// normalizeToDay обрезает время до начала дня. Часовой пояс отбрасывается:
// id слотов хранят локальное время без зоны
func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isTodayInWeek(today time.Time, week weekBounds) bool {
	return !today.Before(week.start) && !today.After(week.end)
}

func isSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// groupSlotsByDay раскладывает слоты недели по дням, остальные пропускаются
func groupSlotsByDay(slots []*model.TimeSlot, week weekBounds) map[string][]placedSlot {
	byDay := make(map[string][]placedSlot)
	for _, slot := range slots {
		start, err := model.ParseSlotID(slot.ID)
		if err != nil {
			continue
		}
		day := normalizeToDay(start)
		if day.Before(week.start) || day.After(week.end) {
			continue
		}
		key := day.Format("2006-01-02")
		byDay[key] = append(byDay[key], placedSlot{slot: slot, start: start})
	}
	return byDay
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(byDay map[string][]placedSlot) hourRange {
	minHour, maxHour := 24, 0

	for _, day := range byDay {
		for _, ps := range day {
			end := ps.start.Add(SlotDuration)
			startH, endH := ps.start.Hour(), end.Hour()
			if end.Minute() > 0 {
				endH++
			}
			if endH <= startH {
				endH = 24
			}
			minHour = min(minHour, startH)
			maxHour = max(maxHour, endH)
		}
	}

	if minHour == 24 {
		minHour, maxHour = defaultMinHour, defaultMaxHour
	}

	startHour := max(minHour-hourPaddingTop, 0)
	endHour := min(maxHour+hourPaddingBot, 23)

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour + 1,
	}
}

func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	return dc
}

// drawHeader рисует заголовок с месяцем
func drawHeader(dc *gg.Context, week weekBounds) {
	title := week.start.Format("January 2006")
	if week.start.Month() != week.end.Month() {
		title = week.start.Format("January") + " - " + week.end.Format("January 2006")
	}

	dc.SetColor(textColor)
	dc.DrawStringAnchored("Interview slots: "+title, 12, float64(headerHeight)/4, 0, 0.5)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)
	for hIdx := 0; hIdx < hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		label := time.Date(2000, 1, 1, hours.start+hIdx, 0, 0, 0, time.UTC).Format("15:04")
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-8, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader рисует день недели и дату над колонкой
func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	dc.SetColor(textColor)
	cx := x + float64(dayWidth)/2
	dc.DrawStringAnchored(date.Format("Mon"), cx, y-22, 0.5, 0.5)
	dc.DrawStringAnchored(date.Format("Jan 2"), cx, y-8, 0.5, 0.5)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawSlot рисует один слот
func drawSlot(dc *gg.Context, ps placedSlot, names map[string]string, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := float64(ps.start.Hour()) + float64(ps.start.Minute())/60.0
	slotY := y + (startHour-float64(hours.start))*cellHeight
	slotHeight := max(SlotDuration.Hours()*cellHeight, minSlotHeight)

	fillColor, txtColor := slotFreeColor, slotTextColor
	if ps.slot.Taken {
		fillColor, txtColor = slotTakenColor, slotTakenTextColor
	}
	slotX := x + dayPaddingX
	slotWidth := float64(dayWidth) - dayPaddingX*2

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(slotX+shadowOffset, slotY+2+shadowOffset, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fillColor)
	dc.DrawRoundedRectangle(slotX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fillColor, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(slotX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Stroke()

	dc.SetColor(txtColor)
	txtX := slotX + 6
	txtY := slotY + 16
	dc.DrawStringAnchored(ps.start.Format("15:04"), txtX, txtY, 0, 0)

	if ps.slot.TakenBy == nil || slotHeight <= 30 {
		return
	}
	if name := names[*ps.slot.TakenBy]; name != "" {
		dc.DrawStringAnchored(shorten(name, maxNameLen), txtX, txtY+14, 0, 0)
	}
}

func shorten(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine рисует линию текущего времени
func drawCurrentTimeLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight float64, dayWidth int) {
	currentHour := float64(now.Hour()) + float64(now.Minute())/60.0
	if currentHour < float64(hours.start) || currentHour > float64(hours.end+1) {
		return
	}

	lineY := float64(headerHeight) + (currentHour-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), lineY, float64(leftLabelsWidth+totalDaysInWeek*dayWidth), lineY)
	dc.Stroke()
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context, dayWidth int) {
	legendItems := []struct {
		Label string
		Clr   color.Color
	}{
		{"Free", slotFreeColor},
		{"Booked", slotTakenColor},
	}

	boxW, boxH := 20.0, 14.0
	liX := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 12)
	liY := float64(imageHeight) - 80.0

	for _, item := range legendItems {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(liX, liY, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, liX+boxW+8, liY+boxH/2, 0, 0.4)
		liY += boxH + 14
	}
}

func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
