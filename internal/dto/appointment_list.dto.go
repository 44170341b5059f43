package dto

import "github.com/BruksfildServices01/barber-booking/internal/models"

// AppointmentListDTO is the flat row shown in the client's agenda.
type AppointmentListDTO struct {
	ID               string  `json:"id"`
	Date             string  `json:"date"`
	Time             string  `json:"time"`
	Status           string  `json:"status"`
	ServiceName      string  `json:"service_name"`
	ProfessionalName string  `json:"professional_name"`
	TotalPrice       float64 `json:"total_price"`
	PendingSync      bool    `json:"pending_sync"`
}

func FromAppointment(a models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:               a.ID,
		Date:             a.Date,
		Time:             a.Time,
		Status:           a.Status,
		ServiceName:      a.Service.Name,
		ProfessionalName: a.Professional.Name,
		TotalPrice:       a.TotalPrice,
		PendingSync:      a.IsLocal(),
	}
}

func FromAppointments(list []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(list))
	for _, a := range list {
		out = append(out, FromAppointment(a))
	}
	return out
}
