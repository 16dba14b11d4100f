package dataset

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Raw column names as they appear in the source CSV header.
const (
	ColPatientID      = "PatientId"
	ColAppointmentID  = "AppointmentID"
	ColGender         = "Gender"
	ColScheduledDay   = "ScheduledDay"
	ColAppointmentDay = "AppointmentDay"
	ColAge            = "Age"
	ColNeighbourhood  = "Neighbourhood"
	ColScholarship    = "Scholarship"
	ColHipertension   = "Hipertension"
	ColDiabetes       = "Diabetes"
	ColAlcoholism     = "Alcoholism"
	ColHandcap        = "Handcap"
	ColSMSReceived    = "SMS_received"
	ColNoShow         = "No-show"
)

// Derived column names appended by the cleaning pipeline.
const (
	ColDaysDiff   = "DaysDiff"
	ColNoShowFlag = "No_show_flag"
	ColWeekday    = "AppointmentWeekday"
)

// RequiredColumns must all be present in the source header.
var RequiredColumns = []string{
	ColPatientID, ColAppointmentID, ColGender, ColScheduledDay,
	ColAppointmentDay, ColAge, ColNeighbourhood, ColScholarship,
	ColHipertension, ColDiabetes, ColAlcoholism, ColHandcap,
	ColSMSReceived, ColNoShow,
}

// Appointment is one cleaned row: raw fields parsed into native types plus
// the derived attributes.
type Appointment struct {
	PatientID      string
	AppointmentID  string
	Gender         string
	ScheduledDay   time.Time
	AppointmentDay time.Time
	Age            int
	Neighbourhood  string
	Scholarship    bool
	Hipertension   bool
	Diabetes       bool
	Alcoholism     bool
	Handcap        int
	SMSReceived    bool
	NoShow         string // trimmed attendance outcome, "No" or "Yes"

	// Derived
	DaysDiff   int
	NoShowFlag int
	Weekday    string
}

// HasChronic reports whether any chronic-condition flag is set.
func (a Appointment) HasChronic() bool {
	return a.Hipertension || a.Diabetes || a.Alcoholism
}

// Table is the canonical cleaned dataset. It is built once at startup and
// treated as read-only afterwards.
type Table struct {
	SnapshotID string
	SourcePath string
	LoadedAt   time.Time
	Rows       []Appointment
}

// NewTable allocates an empty cleaned table with a fresh snapshot ID.
func NewTable(sourcePath string) *Table {
	return &Table{
		SnapshotID: uuid.NewString(),
		SourcePath: sourcePath,
		LoadedAt:   time.Now(),
	}
}

// Neighbourhoods returns the distinct neighbourhood values in sorted order.
func (t *Table) Neighbourhoods() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range t.Rows {
		if _, ok := seen[a.Neighbourhood]; !ok {
			seen[a.Neighbourhood] = struct{}{}
			out = append(out, a.Neighbourhood)
		}
	}
	sort.Strings(out)
	return out
}
