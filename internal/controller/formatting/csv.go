package formatting

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
)

// CSVHeaders колонки выгрузки кандидатов
var CSVHeaders = []string{
	"Candidate ID",
	"Full Name",
	"Email",
	"Phone",
	"Timezone",
	"Selected Slots",
	"Experience",
	"Motivation",
	"Additional Notes",
	"Applied On",
}

// WriteCandidatesCSV пишет кандидатов в CSV. Время подачи выводится в loc
func WriteCandidatesCSV(w io.Writer, candidates []*model.Candidate, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, c := range candidates {
		slots := make([]string, 0, len(c.SelectedSlots))
		for _, id := range c.SelectedSlots {
			slots = append(slots, FormatSlotID(id))
		}

		record := []string{
			c.ID,
			c.FullName,
			c.Email,
			c.Phone,
			c.Timezone,
			strings.Join(slots, "; "),
			c.Experience,
			c.Motivation,
			c.AdditionalNotes,
			FormatDateTime(c.CreatedAt.In(loc)),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", c.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
