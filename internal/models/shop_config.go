package models

// ShopConfig is the singleton row written by the admin panel.
//
// WorkDays distinguishes nil (not configured, Monday to Saturday) from an
// empty slice (explicitly closed every day), so it has no omitempty.
// IsOpen nil means the manual switch was never touched.
type ShopConfig struct {
	AppName       string   `json:"app_name,omitempty"`
	AdminPhoto    string   `json:"admin_photo,omitempty"`
	PrimaryHSL    string   `json:"primary_hsl,omitempty"`
	LoyaltyTarget int      `json:"loyalty_target,omitempty"`
	OpeningHours  string   `json:"opening_hours,omitempty"`
	IsOpen        *bool    `json:"is_open,omitempty"`
	WorkDays      []int    `json:"work_days"`
	TimeSlots     []string `json:"time_slots,omitempty"`
}

// DefaultTimeSlots is the grid offered when the admin never configured one.
var DefaultTimeSlots = []string{
	"09:00", "09:45", "10:30", "11:15", "13:00", "13:45", "14:30", "15:15",
	"16:00", "16:45", "17:30", "18:15", "19:00", "19:45", "20:30", "21:15", "22:00",
}

// DefaultWorkDays is Monday to Saturday.
var DefaultWorkDays = []int{1, 2, 3, 4, 5, 6}

func (c *ShopConfig) Slots() []string {
	if c == nil || len(c.TimeSlots) == 0 {
		return DefaultTimeSlots
	}
	return c.TimeSlots
}
