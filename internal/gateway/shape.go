package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// The remote rows were written by several admin panel versions and carry
// different column names for the same thing. Each table below lists the
// accepted names per field, most preferred first.

type aliases map[string][]string

var serviceAliases = aliases{
	"id":          {"id"},
	"name":        {"name"},
	"description": {"description"},
	"price":       {"price"},
	"duration":    {"duration", "duration_min", "duration_minutes"},
	"category":    {"category"},
	"image_url":   {"image_url", "imageUrl", "image", "avatar"},
	"tag":         {"tag", "tag_name"},
}

var professionalAliases = aliases{
	"id":         {"id"},
	"name":       {"name"},
	"role":       {"role", "specialty"},
	"rating":     {"rating"},
	"avatar_url": {"avatar", "avatar_url", "avatarUrl"},
	"bio":        {"bio"},
}

var appointmentAliases = aliases{
	"id":              {"id"},
	"service_id":      {"service_id", "serviceId"},
	"professional_id": {"professional_id", "professionalId"},
	"client_id":       {"client_id", "clientId", "user_id"},
	"date":            {"date"},
	"time":            {"time"},
	"status":          {"status"},
	"total_price":     {"total_price", "totalPrice", "price"},
}

var clientAliases = aliases{
	"id":       {"id"},
	"name":     {"name"},
	"whatsapp": {"phone", "whatsapp"},
	"birthday": {"birthday"},
	"points":   {"points"},
	"cuts":     {"cuts"},
	"avatar":   {"avatar", "avatar_url"},
}

var configAliases = aliases{
	"app_name":       {"app_name", "appName"},
	"admin_photo":    {"admin_photo", "adminPhoto"},
	"primary_hsl":    {"primary_hsl", "primaryHsl"},
	"loyalty_target": {"loyalty_target", "loyaltyTarget"},
	"opening_hours":  {"opening_hours", "openingHours"},
	"is_open":        {"is_open", "isOpen"},
	"work_days":      {"work_days", "workDays"},
	"time_slots":     {"time_slots", "timeSlots"},
}

const (
	defaultCategory   = "Geral"
	defaultClientName = "Cliente"
)

// lookup returns the first present, non-empty value for field.
func (a aliases) lookup(row Row, field string) (any, bool) {
	for _, col := range a[field] {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func (a aliases) str(row Row, field string) string {
	v, ok := a.lookup(row, field)
	if !ok {
		return ""
	}
	return asString(v)
}

func (a aliases) num(row Row, field string) float64 {
	v, ok := a.lookup(row, field)
	if !ok {
		return 0
	}
	return asFloat(v)
}

func (a aliases) integer(row Row, field string) int {
	return int(a.num(row, field))
}

// ===============================
// Coercion
// ===============================

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case fmt.Stringer:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	case string, []byte:
		f, err := strconv.ParseFloat(asString(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asBoolPtr(v any) *bool {
	var b bool
	switch t := v.(type) {
	case bool:
		b = t
	case string, []byte:
		parsed, err := strconv.ParseBool(asString(t))
		if err != nil {
			return nil
		}
		b = parsed
	default:
		return nil
	}
	return &b
}

// asList accepts native slices, JSON text and Postgres array literals.
func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []int:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case []int64:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	case string, []byte:
		s := asString(t)
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			inner := strings.TrimSpace(s[1 : len(s)-1])
			if inner == "" {
				return []any{}, true
			}
			parts := strings.Split(inner, ",")
			out := make([]any, len(parts))
			for i, p := range parts {
				out[i] = strings.Trim(strings.TrimSpace(p), `"`)
			}
			return out, true
		}
		var out []any
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, false
		}
		return out, true
	default:
		return nil, false
	}
}

func asInts(v any) ([]int, bool) {
	list, ok := asList(v)
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(list))
	for _, item := range list {
		out = append(out, int(asFloat(item)))
	}
	return out, true
}

func asStrings(v any) ([]string, bool) {
	list, ok := asList(v)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

// ===============================
// Entities
// ===============================

func normalizeService(row Row) models.Service {
	a := serviceAliases
	s := models.Service{
		ID:          a.str(row, "id"),
		Name:        a.str(row, "name"),
		Description: a.str(row, "description"),
		Price:       a.num(row, "price"),
		DurationMin: a.integer(row, "duration"),
		Category:    a.str(row, "category"),
		ImageURL:    a.str(row, "image_url"),
		Tag:         a.str(row, "tag"),
	}
	if s.Category == "" {
		s.Category = defaultCategory
	}
	if s.Price < 0 {
		s.Price = 0
	}
	return s
}

func normalizeProfessional(row Row) models.Professional {
	a := professionalAliases
	return models.Professional{
		ID:        a.str(row, "id"),
		Name:      a.str(row, "name"),
		Role:      a.str(row, "role"),
		Rating:    a.num(row, "rating"),
		AvatarURL: a.str(row, "avatar_url"),
		Bio:       a.str(row, "bio"),
	}
}

// normalizeAppointment resolves the embedded snapshots from a nested object
// when the store joined one, from the catalog otherwise, and finally from
// the denormalized name column.
func normalizeAppointment(
	row Row,
	services map[string]models.Service,
	professionals map[string]models.Professional,
) models.Appointment {
	a := appointmentAliases
	ap := models.Appointment{
		ID:             a.str(row, "id"),
		ServiceID:      a.str(row, "service_id"),
		ProfessionalID: a.str(row, "professional_id"),
		ClientID:       a.str(row, "client_id"),
		Date:           a.str(row, "date"),
		Time:           trimSeconds(a.str(row, "time")),
		Status:         string(appointment.NormalizeStatus(a.str(row, "status"))),
		TotalPrice:     a.num(row, "total_price"),
	}

	switch nested := row["service"].(type) {
	case map[string]any:
		ap.Service = normalizeService(nested)
	case Row:
		ap.Service = normalizeService(nested)
	default:
		if s, ok := services[ap.ServiceID]; ok {
			ap.Service = s
		} else {
			ap.Service = models.Service{ID: ap.ServiceID, Name: asStringOrEmpty(nested), Category: defaultCategory}
		}
	}
	if ap.ServiceID == "" {
		ap.ServiceID = ap.Service.ID
	}

	switch nested := row["professional"].(type) {
	case map[string]any:
		ap.Professional = normalizeProfessional(nested)
	case Row:
		ap.Professional = normalizeProfessional(nested)
	default:
		if p, ok := professionals[ap.ProfessionalID]; ok {
			ap.Professional = p
		} else {
			ap.Professional = models.Professional{ID: ap.ProfessionalID, Name: asStringOrEmpty(nested)}
		}
	}
	if ap.ProfessionalID == "" {
		ap.ProfessionalID = ap.Professional.ID
	}

	if len(ap.Date) > len("2006-01-02") {
		ap.Date = ap.Date[:len("2006-01-02")]
	}
	return ap
}

func normalizeUser(row Row, fallbackPhone, fallbackName string) models.User {
	a := clientAliases
	u := models.User{
		ID:       a.str(row, "id"),
		Name:     a.str(row, "name"),
		WhatsApp: a.str(row, "whatsapp"),
		Birthday: a.str(row, "birthday"),
		Points:   a.integer(row, "points"),
	}
	if u.WhatsApp == "" {
		u.WhatsApp = fallbackPhone
	}
	if u.Name == "" {
		u.Name = fallbackName
	}
	if u.Name == "" {
		u.Name = defaultClientName
	}
	if len(u.Birthday) > len("2006-01-02") {
		u.Birthday = u.Birthday[:len("2006-01-02")]
	}
	return u
}

func normalizeRankingItem(row Row) models.RankingItem {
	a := clientAliases
	return models.RankingItem{
		ID:     a.str(row, "id"),
		Name:   a.str(row, "name"),
		Cuts:   a.integer(row, "cuts"),
		Avatar: a.str(row, "avatar"),
	}
}

func normalizeConfig(row Row) *models.ShopConfig {
	a := configAliases
	cfg := &models.ShopConfig{
		AppName:       a.str(row, "app_name"),
		AdminPhoto:    a.str(row, "admin_photo"),
		PrimaryHSL:    a.str(row, "primary_hsl"),
		LoyaltyTarget: a.integer(row, "loyalty_target"),
		OpeningHours:  a.str(row, "opening_hours"),
	}

	if v, ok := a.lookup(row, "is_open"); ok {
		cfg.IsOpen = asBoolPtr(v)
	}

	// an empty work_days list is meaningful, so it must survive as non-nil
	for _, col := range configAliases["work_days"] {
		v, present := row[col]
		if !present || v == nil {
			continue
		}
		if days, ok := asInts(v); ok {
			cfg.WorkDays = days
			break
		}
	}

	if v, ok := a.lookup(row, "time_slots"); ok {
		if slots, ok := asStrings(v); ok && len(slots) > 0 {
			cfg.TimeSlots = slots
		}
	}

	return cfg
}

func trimSeconds(hm string) string {
	// Postgres time columns come back as HH:MM:SS
	if len(hm) == len("15:04:05") && strings.Count(hm, ":") == 2 {
		return hm[:len("15:04")]
	}
	return hm
}

func asStringOrEmpty(v any) string {
	if v == nil {
		return ""
	}
	return asString(v)
}

// UserFromRow normalizes a clients row delivered outside a gateway call,
// such as a realtime change. Empty fields fall back to base.
func UserFromRow(row Row, base models.User) models.User {
	u := normalizeUser(row, base.WhatsApp, base.Name)
	if u.ID == "" {
		u.ID = base.ID
	}
	if u.Birthday == "" {
		u.Birthday = base.Birthday
	}
	if _, ok := clientAliases.lookup(row, "points"); !ok {
		u.Points = base.Points
	}
	return u
}
