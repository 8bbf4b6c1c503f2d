package drafts

import (
	"encoding/json"
	"errors"
	"testing"

	"recruit_client/internal/common"
	"recruit_client/internal/domain/vacancy"
)

func TestMapContractType(t *testing.T) {
	cases := map[string]vacancy.ContractType{
		"CLT":        vacancy.ContractCLT,
		" pj ":       vacancy.ContractPJ,
		"Estágio":    vacancy.ContractEstagio,
		"estagio":    vacancy.ContractEstagio,
		"Trainee":    vacancy.ContractEstagio,
		"temporário": vacancy.ContractTemporario,
		"AUTONOMO":   vacancy.ContractAutonomo,
		"freelancer": vacancy.ContractCLT,
		"":           vacancy.ContractCLT,
	}
	for raw, want := range cases {
		if got := MapContractType(raw); got != want {
			t.Errorf("MapContractType(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestMapWorkModel(t *testing.T) {
	cases := map[string]vacancy.WorkModel{
		"Presencial": vacancy.WorkPresencial,
		"remoto":     vacancy.WorkRemoto,
		"Híbrido":    vacancy.WorkHibrido,
		"hibrido":    vacancy.WorkHibrido,
		"home":       vacancy.WorkPresencial,
	}
	for raw, want := range cases {
		if got := MapWorkModel(raw); got != want {
			t.Errorf("MapWorkModel(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParseSalary(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"R$ 1.234,56", 1234.56},
		{"1.234.567,89", 1234567.89},
		{"5.000", 5000},
		{"5000", 5000},
		{"1234.5", 1234.5},
		{"1,5", 1.5},
		{"1,234.56", 1234.56},
		{"", 0},
		{"a combinar", 0},
		{"R$ ,", 0},
	}
	for _, tc := range cases {
		if got := ParseSalary(tc.raw); got != tc.want {
			t.Errorf("ParseSalary(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestParseManagerID(t *testing.T) {
	valid := map[string]int64{
		`7`:                   7,
		`"7"`:                 7,
		`" 12 "`:              12,
		`7.0`:                 7,
		`"42.00"`:             42,
		`9223372036854775807`: 9223372036854775807,
		`"9007199254740993"`:  9007199254740993,
	}
	for raw, want := range valid {
		got, err := ParseManagerID(json.RawMessage(raw))
		if err != nil || got != want {
			t.Errorf("ParseManagerID(%s) = %d, %v; want %d", raw, got, err, want)
		}
	}

	for _, raw := range []string{``, `null`, `""`, `"  "`} {
		if _, err := ParseManagerID(json.RawMessage(raw)); !errors.Is(err, errManagerAbsent) {
			t.Errorf("ParseManagerID(%q): expected absent, got %v", raw, err)
		}
	}

	for _, raw := range []string{`0`, `-3`, `"abc"`, `7.5`, `true`, `{}`, `"-1"`,
		`9223372036854775808`, `"-9223372036854775809"`, `1e300`, `9007199254740993.0`} {
		_, err := ParseManagerID(json.RawMessage(raw))
		var validation *common.ValidationFailure
		if !errors.As(err, &validation) || validation.Field != "gestor_id" {
			t.Errorf("ParseManagerID(%s): expected gestor_id validation failure, got %v", raw, err)
		}
	}
}

func TestBuildPayload(t *testing.T) {
	payload := BuildPayload(Draft{
		JobTitle:      " Analista ",
		Area:          "TI",
		WorkModel:     "Híbrido",
		ContractType:  "Estágio",
		Salary:        "R$ 1.234,56",
		Justification: "substituição",
	}, 7)
	if payload.JobTitle != "Analista" || payload.ContractType != vacancy.ContractEstagio ||
		payload.WorkModel != vacancy.WorkHibrido || payload.Salary != 1234.56 ||
		payload.ManagerID != 7 || payload.Status != vacancy.StatusPending {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}
