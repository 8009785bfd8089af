package agent

import (
	"encoding/json"
	"testing"

	"bookline/models"

	genai "github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDeclarations(t *testing.T) {
	decls := toDeclarations([]models.FunctionDescriptor{{
		Name:        "book_appointment",
		Description: "Create the appointment.",
		Parameters: map[string]models.ParameterSpec{
			"name":  {Type: "string", Description: "Full name.", Required: true},
			"notes": {Type: "string", Description: "Optional notes."},
		},
	}})

	require.Len(t, decls, 1)
	assert.Equal(t, "book_appointment", decls[0].Name)
	assert.Equal(t, genai.TypeObject, decls[0].Parameters.Type)
	assert.Len(t, decls[0].Parameters.Properties, 2)
	assert.Equal(t, []string{"name"}, decls[0].Parameters.Required)
}

func TestToHistory(t *testing.T) {
	args, _ := json.Marshal(map[string]any{"date": "tomorrow"})
	result, _ := json.Marshal(map[string]any{"success": true})

	history := toHistory([]models.Turn{
		{Role: models.RoleAssistant, Content: "Hi! How can I help?"},
		{Role: models.RoleUser, Content: "are you free tomorrow?"},
		{Role: models.RoleAssistant, FunctionName: "check_availability", FunctionArgs: args},
		{Role: models.RoleFunction, FunctionName: "check_availability", FunctionResult: result},
	})

	require.Len(t, history, 4)
	assert.Equal(t, "model", history[0].Role)
	assert.Equal(t, "user", history[1].Role)

	call, ok := history[2].Parts[0].(genai.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "check_availability", call.Name)
	assert.Equal(t, "tomorrow", call.Args["date"])

	resp, ok := history[3].Parts[0].(genai.FunctionResponse)
	require.True(t, ok)
	assert.Equal(t, "function", history[3].Role)
	assert.Equal(t, true, resp.Response["success"])
}

func TestToSchemaType(t *testing.T) {
	assert.Equal(t, genai.TypeString, toSchemaType("string"))
	assert.Equal(t, genai.TypeInteger, toSchemaType("integer"))
	assert.Equal(t, genai.TypeNumber, toSchemaType("number"))
	assert.Equal(t, genai.TypeBoolean, toSchemaType("boolean"))
	assert.Equal(t, genai.TypeString, toSchemaType(""))
}
