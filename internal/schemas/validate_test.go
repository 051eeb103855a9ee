package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validJobDocument = `{
	"jobs": [
		{
			"title": "Backend Engineer",
			"description": "Build APIs in Go and Python.",
			"skills": ["go", "python"],
			"work_type": "remote",
			"job_type": "full_time",
			"experience_level": "mid",
			"salary_min": 120000,
			"salary_max": 160000,
			"company_name": "Acme",
			"company_rating": 4.2,
			"company_size": "medium"
		}
	]
}`

func TestValidateJobDocument_Valid(t *testing.T) {
	assert.NoError(t, ValidateJobDocument(validJobDocument))
}

func TestValidateJobDocument_MissingRequiredFields(t *testing.T) {
	err := ValidateJobDocument(`{"jobs": [{"title": "No description"}]}`)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.NotEmpty(t, ve.Errors)
}

func TestValidateJobDocument_InvalidEnum(t *testing.T) {
	doc := `{
		"jobs": [
			{
				"title": "Backend Engineer",
				"description": "Build APIs.",
				"work_type": "freelance"
			}
		]
	}`
	err := ValidateJobDocument(doc)
	require.Error(t, err)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestValidateJobDocument_EmptyJobsList(t *testing.T) {
	err := ValidateJobDocument(`{"jobs": []}`)
	assert.Error(t, err)
}

func TestValidateJSONString_MalformedDocument(t *testing.T) {
	err := ValidateJSONString(`{"type": "object"}`, `{not json`)
	require.Error(t, err)

	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}

func TestValidationError_MessageListsFields(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "jobs.0.title", Message: "is required"},
	}}
	assert.Contains(t, ve.Error(), "jobs.0.title")
	assert.Contains(t, ve.Error(), "is required")
}
