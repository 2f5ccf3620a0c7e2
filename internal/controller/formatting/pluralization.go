package formatting

import "fmt"

// Pluralize возвращает "1 slot", "2 slots"
func Pluralize(count int, noun string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, noun)
	}
	return fmt.Sprintf("%d %ss", count, noun)
}

// PluralizeSlots возвращает правильную форму слова "slot"
func PluralizeSlots(count int) string {
	return Pluralize(count, "slot")
}

// PluralizeCandidates возвращает правильную форму слова "candidate"
func PluralizeCandidates(count int) string {
	return Pluralize(count, "candidate")
}
