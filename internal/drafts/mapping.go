package drafts

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"recruit_client/internal/common"
	"recruit_client/internal/domain/vacancy"
)

// VacancyPayload is the body the vacancies resource expects on insert.
type VacancyPayload struct {
	JobTitle      string               `json:"jobTitle"`
	Area          string               `json:"area"`
	Period        string               `json:"period,omitempty"`
	WorkModel     vacancy.WorkModel    `json:"workModel"`
	ContractType  vacancy.ContractType `json:"contractType"`
	Salary        float64              `json:"salary"`
	Location      string               `json:"location,omitempty"`
	Requirements  string               `json:"requirements,omitempty"`
	Justification string               `json:"justification,omitempty"`
	ManagerID     int64                `json:"fk_manager"`
	Status        vacancy.Status       `json:"status"`
}

// The backend enum has no Trainee, so it collapses onto Estágio.
var contractTypes = map[string]vacancy.ContractType{
	"clt":        vacancy.ContractCLT,
	"pj":         vacancy.ContractPJ,
	"estagio":    vacancy.ContractEstagio,
	"estágio":    vacancy.ContractEstagio,
	"trainee":    vacancy.ContractEstagio,
	"temporario": vacancy.ContractTemporario,
	"temporário": vacancy.ContractTemporario,
	"autonomo":   vacancy.ContractAutonomo,
	"autônomo":   vacancy.ContractAutonomo,
}

var workModels = map[string]vacancy.WorkModel{
	"presencial": vacancy.WorkPresencial,
	"remoto":     vacancy.WorkRemoto,
	"hibrido":    vacancy.WorkHibrido,
	"híbrido":    vacancy.WorkHibrido,
}

// MapContractType falls back to CLT for anything outside the table.
func MapContractType(raw string) vacancy.ContractType {
	if mapped, ok := contractTypes[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return mapped
	}
	return vacancy.ContractCLT
}

// MapWorkModel falls back to presencial for anything outside the table.
func MapWorkModel(raw string) vacancy.WorkModel {
	if mapped, ok := workModels[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return mapped
	}
	return vacancy.WorkPresencial
}

// ParseSalary reads a locale formatted amount such as "R$ 1.234,56".
// Whichever of ',' and '.' comes last is the decimal separator; a lone '.'
// followed by three digits is a thousands separator. Invalid input yields 0.
func ParseSalary(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s[:lastComma], ".", "") + "." + s[lastComma+1:]
		s = strings.ReplaceAll(s, ",", "")
	case lastDot >= 0:
		s = strings.ReplaceAll(s, ",", "")
		if strings.Count(s, ".") > 1 || len(s)-strings.LastIndex(s, ".")-1 == 3 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

var errManagerAbsent = errors.New("manager id absent")

// ParseManagerID accepts a JSON number or numeric string holding a positive integer.
// An absent value returns errManagerAbsent so the caller can fall back to the session user.
func ParseManagerID(raw json.RawMessage) (int64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, errManagerAbsent
	}
	var text string
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return 0, managerInvalid("gestor_id is not a valid string")
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, errManagerAbsent
		}
	} else {
		decoder := json.NewDecoder(bytes.NewReader(trimmed))
		decoder.UseNumber()
		var number json.Number
		if err := decoder.Decode(&number); err != nil {
			return 0, managerInvalid("gestor_id must be numeric")
		}
		text = number.String()
	}
	id, err := parseIntegral(text)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, managerInvalid("gestor_id must be positive")
	}
	return id, nil
}

// Float forms such as "7.0" are accepted only below 2^53, where they are exact.
const maxExactFloat = 1 << 53

func parseIntegral(text string) (int64, error) {
	id, err := strconv.ParseInt(text, 10, 64)
	if err == nil {
		return id, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, managerInvalid("gestor_id is out of range")
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, managerInvalid("gestor_id must be numeric")
	}
	if value != math.Trunc(value) {
		return 0, managerInvalid("gestor_id must be an integer")
	}
	if math.Abs(value) >= maxExactFloat {
		return 0, managerInvalid("gestor_id is out of range")
	}
	return int64(value), nil
}

func managerInvalid(message string) error {
	return &common.ValidationFailure{Field: "gestor_id", Message: message}
}

// BuildPayload maps raw draft fields. Only the manager id is a hard requirement.
func BuildPayload(d Draft, managerID int64) VacancyPayload {
	return VacancyPayload{
		JobTitle:      strings.TrimSpace(d.JobTitle),
		Area:          strings.TrimSpace(d.Area),
		Period:        strings.TrimSpace(d.Period),
		WorkModel:     MapWorkModel(d.WorkModel),
		ContractType:  MapContractType(d.ContractType),
		Salary:        ParseSalary(d.Salary),
		Location:      strings.TrimSpace(d.Location),
		Requirements:  strings.TrimSpace(d.Requirements),
		Justification: strings.TrimSpace(d.Justification),
		ManagerID:     managerID,
		Status:        vacancy.StatusPending,
	}
}
