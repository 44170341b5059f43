package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalIDPrefix marks ids synthesized on the device while the remote store
// was unreachable or refused the write.
const LocalIDPrefix = "local_"

// Appointment keeps service and professional snapshots taken at booking time,
// so later edits to the catalog don't rewrite history.
type Appointment struct {
	ID             string       `json:"id"`
	Service        Service      `json:"service"`
	Professional   Professional `json:"professional"`
	ServiceID      string       `json:"service_id"`
	ProfessionalID string       `json:"professional_id"`
	ClientID       string       `json:"client_id"`
	Date           string       `json:"date"`
	Time           string       `json:"time"`
	Status         string       `json:"status"`
	TotalPrice     float64      `json:"total_price"`
}

func (a Appointment) IsLocal() bool {
	return IsLocalID(a.ID)
}

func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// NewLocalID builds a device-side id such as "local_appt_<ms>_<uuid>".
// An empty kind gives "local_<ms>_<uuid>".
func NewLocalID(kind string, now time.Time) string {
	prefix := LocalIDPrefix
	if kind != "" {
		prefix += kind + "_"
	}
	return prefix + strconv.FormatInt(now.UnixMilli(), 10) + "_" + uuid.NewString()
}
