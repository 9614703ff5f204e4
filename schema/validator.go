package payloadschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"horse.fit/roamsift/internal/pipeline"
)

//go:embed record_batch.schema.json
var recordBatchSchemaJSON string

// RecordBatch is one collector delivery: a payload version marker, an
// optional per-batch threshold override, and the raw candidate records.
type RecordBatch struct {
	PayloadVersion string            `json:"payload_version"`
	Threshold      float64           `json:"threshold,omitempty"`
	Records        []pipeline.Record `json:"records"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateBatchPayload strictly decodes, schema-validates, and
// semantically checks one collector batch payload.
func ValidateBatchPayload(payload json.RawMessage) (*RecordBatch, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize payload JSON: %w", err)
	}

	var batch RecordBatch
	if err := json.Unmarshal(normalized, &batch); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := validateSemantics(&batch); err != nil {
		return nil, err
	}

	return &batch, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("record_batch.schema.json", strings.NewReader(recordBatchSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("record_batch.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func validateSemantics(batch *RecordBatch) error {
	if batch == nil {
		return fmt.Errorf("payload is nil")
	}

	if strings.TrimSpace(batch.PayloadVersion) != "v1" {
		return fmt.Errorf("payload_version must be v1")
	}

	for i, rec := range batch.Records {
		if strings.TrimSpace(rec.Title) == "" {
			return fmt.Errorf("records[%d].title must not be empty", i)
		}
		if link := strings.TrimSpace(rec.Link); link != "" {
			if _, err := url.ParseRequestURI(link); err != nil {
				return fmt.Errorf("records[%d].link is not a valid URI: %w", i, err)
			}
		}
		switch rec.Kind {
		case pipeline.KindUnknown, pipeline.KindDomestic, pipeline.KindGlobal:
		default:
			return fmt.Errorf("records[%d].type %q is not a known origin", i, rec.Kind)
		}
	}

	return nil
}
