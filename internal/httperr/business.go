package httperr

import "errors"

// BusinessError is a validation refusal: the request was understood and
// deliberately rejected. Code is stable for clients, Message is for people.
type BusinessError struct {
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	return e.Code
}

// messages holds the user-facing text for known codes.
var messages = map[string]string{
	"shop_closed":              "Agendamentos estão temporariamente desativados pelo administrador.",
	"closed_on_date":           "A barbearia não abre nesta data.",
	"outside_business_hours":   "Desculpe, este horário está fora do expediente da barbearia.",
	"slot_not_offered":         "Este horário não faz parte da agenda da barbearia.",
	"slot_in_past":             "Este horário já passou ou começa em menos de 15 minutos.",
	"slot_taken":               "Desculpe, este horário acabou de ser preenchido por outra pessoa. Por favor, escolha outro.",
	"client_busy":              "Você já possui um agendamento para este mesmo horário. Verifique sua agenda.",
	"invalid_date_or_time":     "Data ou hora inválida.",
	"invalid_state":            "Este agendamento não pode mais ser cancelado.",
	"appointment_not_found":    "Agendamento não encontrado.",
	"service_not_found":        "Serviço não encontrado.",
	"professional_not_found":   "Profissional não encontrado.",
	"client_not_found":         "Nenhum cliente encontrado com esse telefone.",
	"points_decrease":          "Pontos de fidelidade não podem diminuir.",
	"phone_already_registered": "Este número de WhatsApp já está cadastrado. Por favor, utilize a opção Entrar.",
	"invalid_phone":            "Informe um WhatsApp com DDD e 11 dígitos.",
	"invalid_name":             "Informe seu nome.",
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code, Message: messages[code]}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// AsBusiness extracts the BusinessError from err, if any.
func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
