package drafts

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"recruit_client/internal/common"
)

const slotSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id"],
    "properties": {
      "id": {"type": "string", "pattern": "^tmp-"},
      "cargo": {"type": "string"},
      "area": {"type": "string"},
      "periodo": {"type": "string"},
      "modeloTrabalho": {"type": "string"},
      "regimeContratacao": {"type": "string"},
      "salario": {"type": "string"},
      "localizacao": {"type": "string"},
      "requisitos": {"type": "string"},
      "justificativa": {"type": "string"},
      "gestor_id": {"type": ["number", "string", "null"]},
      "dataCriacao": {"type": "string"},
      "pending": {"type": "boolean"},
      "idempotencyKey": {"type": "string"}
    }
  }
}`

var slotSchema = mustSchema(slotSchemaJSON)

func mustSchema(source string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(fmt.Sprintf("drafts: compile slot schema: %v", err))
	}
	return schema
}

// validateSlot checks the raw slot before it is decoded into drafts.
func validateSlot(data []byte) error {
	result, err := slotSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return errors.New(strings.Join(problems, "; "))
}

// validateDraft checks one draft against the slot schema so a bad value never reaches storage.
func validateDraft(d Draft) error {
	data, err := json.Marshal([]Draft{d})
	if err != nil {
		return &common.ValidationFailure{Field: "draft", Message: err.Error()}
	}
	result, err := slotSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &common.ValidationFailure{Field: "draft", Message: err.Error()}
	}
	if result.Valid() {
		return nil
	}
	first := result.Errors()[0]
	field := strings.TrimPrefix(first.Field(), "0.")
	if field == "0" || field == "" {
		field = "draft"
	}
	return &common.ValidationFailure{Field: field, Message: first.Description()}
}
