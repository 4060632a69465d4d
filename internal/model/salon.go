package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SalonStatus string

const (
	SalonStatusPending  SalonStatus = "pending"
	SalonStatusApproved SalonStatus = "approved"
	SalonStatusBlocked  SalonStatus = "blocked"
)

// Weekdays accepted in working hours, in display order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ValidWeekday reports whether day is one of the enumerated day names.
func ValidWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

type WorkingDay struct {
	Day         string `json:"day"`
	IsOpen      bool   `json:"is_open"`
	OpeningTime string `json:"opening_time,omitempty"`
	ClosingTime string `json:"closing_time,omitempty"`
}

// WorkingHours is stored as a jsonb column.
type WorkingHours []WorkingDay

func (w WorkingHours) Value() (driver.Value, error) {
	if w == nil {
		return "[]", nil
	}
	return json.Marshal(w)
}

func (w *WorkingHours) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*w = nil
		return nil
	case []byte:
		return json.Unmarshal(v, w)
	case string:
		return json.Unmarshal([]byte(v), w)
	default:
		return fmt.Errorf("unsupported type %T for WorkingHours", src)
	}
}

type Salon struct {
	Base
	Name         string       `db:"name" json:"name"`
	Location     string       `db:"location" json:"location"`
	Phone        string       `db:"phone" json:"phone"`
	Email        string       `db:"email" json:"email"`
	Description  string       `db:"description" json:"description,omitempty"`
	Status       SalonStatus  `db:"status" json:"status"`
	OwnerID      uuid.UUID    `db:"owner_id" json:"owner_id"`
	WorkingHours WorkingHours `db:"working_hours" json:"working_hours"`
}

type Holiday struct {
	ID          uuid.UUID `db:"id" json:"id"`
	SalonID     uuid.UUID `db:"salon_id" json:"salon_id"`
	Date        time.Time `db:"holiday_date" json:"date"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type CreateSalonRequest struct {
	Name        string `json:"salon_name" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Description string `json:"description"`
}

type SetWorkingHoursRequest struct {
	WorkingHours []WorkingDay `json:"working_hours" binding:"required,dive"`
}

type AddHolidayRequest struct {
	Date        string `json:"date" binding:"required"`
	Description string `json:"description" binding:"required"`
}
