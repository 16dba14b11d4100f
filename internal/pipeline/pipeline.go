// Package pipeline turns the raw appointment CSV into the canonical cleaned
// table: it drops structurally invalid rows, parses timestamps, normalizes
// text fields and derives DaysDiff, No_show_flag and AppointmentWeekday.
// Cleaning runs once at startup; the resulting table is read-only.
package pipeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/noshowboard/internal/dataset"
)

// ErrUnknownOutcome indicates a No-show value outside {"No","Yes"} after
// trimming. Such values are a data-quality defect and abort the load rather
// than being silently coerced.
var ErrUnknownOutcome = errors.New("unknown attendance outcome")

// Stats records what each cleaning stage did to the row set.
type Stats struct {
	RowsIn         int `json:"rows_in"`
	DroppedAge     int `json:"dropped_negative_age"`
	DroppedDelay   int `json:"dropped_negative_delay"`
	RowsOut        int `json:"rows_out"`
	DurationMillis int `json:"duration_ms"`
}

// Clean applies the cleaning stages to a raw table in fixed order and
// returns the cleaned table. Row order is preserved. Any unparseable value
// is fatal for the whole load: the source format is assumed well-formed, so
// a bad cell is surfaced instead of dropped.
func Clean(raw *dataset.RawTable) (*dataset.Table, Stats, error) {
	start := time.Now()
	t := dataset.NewTable(raw.Path)
	stats := Stats{RowsIn: len(raw.Rows)}

	for i, row := range raw.Rows {
		line := i + 2 // header is line 1

		age, err := strconv.Atoi(strings.TrimSpace(raw.Field(row, dataset.ColAge)))
		if err != nil {
			return nil, stats, fmt.Errorf("row %d: parse %s: %w", line, dataset.ColAge, err)
		}
		if age < 0 {
			stats.DroppedAge++
			continue
		}

		scheduled, err := parseTimestamp(raw.Field(row, dataset.ColScheduledDay))
		if err != nil {
			return nil, stats, fmt.Errorf("row %d: parse %s: %w", line, dataset.ColScheduledDay, err)
		}
		appointment, err := parseTimestamp(raw.Field(row, dataset.ColAppointmentDay))
		if err != nil {
			return nil, stats, fmt.Errorf("row %d: parse %s: %w", line, dataset.ColAppointmentDay, err)
		}

		daysDiff := daysBetween(scheduled, appointment)
		if daysDiff < 0 {
			stats.DroppedDelay++
			continue
		}

		outcome := strings.TrimSpace(raw.Field(row, dataset.ColNoShow))
		noShowFlag, err := outcomeFlag(outcome)
		if err != nil {
			return nil, stats, fmt.Errorf("row %d: %w", line, err)
		}

		a := dataset.Appointment{
			PatientID:      strings.TrimSpace(raw.Field(row, dataset.ColPatientID)),
			AppointmentID:  strings.TrimSpace(raw.Field(row, dataset.ColAppointmentID)),
			Gender:         strings.TrimSpace(raw.Field(row, dataset.ColGender)),
			ScheduledDay:   scheduled,
			AppointmentDay: appointment,
			Age:            age,
			Neighbourhood:  strings.TrimSpace(raw.Field(row, dataset.ColNeighbourhood)),
			NoShow:         outcome,
			DaysDiff:       daysDiff,
			NoShowFlag:     noShowFlag,
			Weekday:        appointment.UTC().Weekday().String(),
		}
		if a.Scholarship, err = parseFlag(raw, row, dataset.ColScholarship, line); err != nil {
			return nil, stats, err
		}
		if a.Hipertension, err = parseFlag(raw, row, dataset.ColHipertension, line); err != nil {
			return nil, stats, err
		}
		if a.Diabetes, err = parseFlag(raw, row, dataset.ColDiabetes, line); err != nil {
			return nil, stats, err
		}
		if a.Alcoholism, err = parseFlag(raw, row, dataset.ColAlcoholism, line); err != nil {
			return nil, stats, err
		}
		if a.SMSReceived, err = parseFlag(raw, row, dataset.ColSMSReceived, line); err != nil {
			return nil, stats, err
		}
		if a.Handcap, err = strconv.Atoi(strings.TrimSpace(raw.Field(row, dataset.ColHandcap))); err != nil {
			return nil, stats, fmt.Errorf("row %d: parse %s: %w", line, dataset.ColHandcap, err)
		}

		t.Rows = append(t.Rows, a)
	}

	stats.RowsOut = len(t.Rows)
	stats.DurationMillis = int(time.Since(start).Milliseconds())
	return t, stats, nil
}

// Run loads the source file, cleans it and persists the cleaned table to
// outPath. A persist failure is terminal: the dashboard must not start
// without cleaned data on disk.
func Run(inPath, outPath string) (*dataset.Table, Stats, error) {
	raw, err := dataset.Load(inPath)
	if err != nil {
		return nil, Stats{}, err
	}
	t, stats, err := Clean(raw)
	if err != nil {
		return nil, stats, err
	}
	if err := dataset.WriteCSV(outPath, t); err != nil {
		return nil, stats, err
	}
	return t, stats, nil
}

func outcomeFlag(outcome string) (int, error) {
	switch outcome {
	case "No":
		return 0, nil
	case "Yes":
		return 1, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOutcome, outcome)
}

// daysBetween is the calendar-date difference in days, ignoring the time of
// day. A same-day appointment booked earlier that day is therefore 0, not
// a negative fraction.
func daysBetween(scheduled, appointment time.Time) int {
	return int(dateOf(appointment).Sub(dateOf(scheduled)).Hours() / 24)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		return ts, nil
	}
	ts, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", v, err)
	}
	return ts, nil
}

func parseFlag(raw *dataset.RawTable, row []string, col string, line int) (bool, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw.Field(row, col)))
	if err != nil {
		return false, fmt.Errorf("row %d: parse %s: %w", line, col, err)
	}
	return n != 0, nil
}
