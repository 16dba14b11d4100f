package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/KaramelBytes/noshowboard/internal/utils"
)

// OutputColumns is the header of the cleaned file: the raw columns in their
// source order followed by the derived ones. No row-index column is written.
var OutputColumns = append(append([]string{}, RequiredColumns...),
	ColDaysDiff, ColNoShowFlag, ColWeekday)

// WriteCSV persists the cleaned table to path, overwriting any existing
// file. The write is atomic so a failed run never leaves a partial file.
func WriteCSV(path string, t *Table) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(OutputColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, a := range t.Rows {
		if err := w.Write(Record(a)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := utils.EnsureDir(path); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write cleaned csv: %w", err)
	}
	return nil
}

// Record serializes one appointment in OutputColumns order.
func Record(a Appointment) []string {
	return []string{
		a.PatientID,
		a.AppointmentID,
		a.Gender,
		a.ScheduledDay.UTC().Format(time.RFC3339),
		a.AppointmentDay.UTC().Format(time.RFC3339),
		strconv.Itoa(a.Age),
		a.Neighbourhood,
		flag(a.Scholarship),
		flag(a.Hipertension),
		flag(a.Diabetes),
		flag(a.Alcoholism),
		strconv.Itoa(a.Handcap),
		flag(a.SMSReceived),
		a.NoShow,
		strconv.Itoa(a.DaysDiff),
		strconv.Itoa(a.NoShowFlag),
		a.Weekday,
	}
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
