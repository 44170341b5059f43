package db

import "time"

// Remote tables as the admin panel and this service share them. Only used
// for migrations; reads and writes go through column maps.

type ServiceRecord struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	Name        string `gorm:"not null"`
	Description string
	Price       float64 `gorm:"not null;default:0;check:price >= 0"`
	Duration    int     `gorm:"not null;check:duration > 0"`
	Category    string  `gorm:"default:Geral"`
	ImageURL    string
	Tag         string
	CreatedAt   time.Time
}

func (ServiceRecord) TableName() string { return "services" }

type ProfessionalRecord struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	Name      string `gorm:"not null"`
	Role      string
	Rating    float64
	Avatar    string
	Bio       string
	CreatedAt time.Time
}

func (ProfessionalRecord) TableName() string { return "professionals" }

type ClientRecord struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	Name      string `gorm:"not null"`
	Phone     string `gorm:"uniqueIndex;not null"`
	Birthday  *string
	Points    int `gorm:"not null;default:0;check:points >= 0"`
	Cuts      int `gorm:"not null;default:0"`
	Avatar    string
	CreatedAt time.Time
}

func (ClientRecord) TableName() string { return "clients" }

type AppointmentRecord struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	ServiceID      string `gorm:"type:uuid;index"`
	ProfessionalID string `gorm:"type:uuid;not null"`
	ClientID       string `gorm:"type:uuid;index"`
	Date           string `gorm:"type:varchar(10);not null;index"`
	Time           string `gorm:"type:varchar(5);not null"`
	Status         string `gorm:"not null;default:pending"`
	Price          float64
	Service        string
	Professional   string
	CreatedAt      time.Time
}

func (AppointmentRecord) TableName() string { return "appointments" }

type ConfigRecord struct {
	ID            uint `gorm:"primaryKey"`
	AppName       string
	AdminPhoto    string
	PrimaryHSL    string `gorm:"column:primary_hsl"`
	LoyaltyTarget int
	OpeningHours  string
	IsOpen        *bool
	WorkDays      *string `gorm:"type:jsonb"`
	TimeSlots     *string `gorm:"type:jsonb"`
	UpdatedAt     time.Time
}

func (ConfigRecord) TableName() string { return "config" }
