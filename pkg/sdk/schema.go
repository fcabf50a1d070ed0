package sdk

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const analysisSchemaJSON = `{
  "type": "object",
  "required": ["deal_name", "template_name", "overall_score", "risk_label", "deviations", "counts"],
  "properties": {
    "deal_name": {"type": "string"},
    "template_name": {"type": "string"},
    "overall_score": {"type": "number", "minimum": 0, "maximum": 10},
    "risk_label": {"enum": ["High", "Medium", "Low"]},
    "deviations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["clause", "type", "risk_level", "description", "recommendation"],
        "properties": {
          "clause": {"type": "string"},
          "type": {"type": "string"},
          "risk_level": {"enum": ["High", "Medium", "Low"]},
          "description": {"type": "string"},
          "recommendation": {"type": "string"}
        }
      }
    },
    "counts": {
      "type": "object",
      "required": ["High", "Medium", "Low"],
      "properties": {
        "High": {"type": "integer", "minimum": 0},
        "Medium": {"type": "integer", "minimum": 0},
        "Low": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

const portfolioSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "deal_name", "jurisdiction", "vintage", "risk_score", "risk_label",
                 "high_risk_count", "medium_risk_count", "low_risk_count", "is_red_flag"],
    "properties": {
      "id": {"type": "string"},
      "deal_name": {"type": "string"},
      "jurisdiction": {"type": "string"},
      "vintage": {"type": "string"},
      "risk_score": {"type": "number"},
      "risk_label": {"enum": ["High", "Medium", "Low"]},
      "high_risk_count": {"type": "integer", "minimum": 0},
      "medium_risk_count": {"type": "integer", "minimum": 0},
      "low_risk_count": {"type": "integer", "minimum": 0},
      "is_red_flag": {"type": "boolean"}
    }
  }
}`

var (
	analysisSchema  = mustSchema(analysisSchemaJSON)
	portfolioSchema = mustSchema(portfolioSchemaJSON)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded schema: %v", err))
	}
	return s
}

// validatePayload rejects upstream bodies that do not match schema. A bad
// payload is reported as 502 since the backend answered but not usefully.
func validatePayload(schema *gojsonschema.Schema, requestID string, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &APIError{
			StatusCode: http.StatusBadGateway,
			Message:    "malformed response from backend",
			RequestID:  requestID,
			Err:        err,
		}
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		issues = append(issues, e.String())
	}
	return &APIError{
		StatusCode: http.StatusBadGateway,
		Message:    "unexpected response from backend: " + strings.Join(issues, "; "),
		RequestID:  requestID,
	}
}
