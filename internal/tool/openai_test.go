package tool

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestOpenAIDefinition(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewCurrentWeatherTool(&stubService{}, nil)))

	defs := r.OpenAITools()
	require.Len(t, defs, 1)

	raw, err := json.Marshal(defs[0])
	require.NoError(t, err)

	assert.Equal(t, "function", gjson.GetBytes(raw, "type").String())
	assert.Equal(t, "get_current_weather", gjson.GetBytes(raw, "function.name").String())
	assert.Equal(t, "Fetch current weather data for a specified location.", gjson.GetBytes(raw, "function.description").String())
	assert.Equal(t, "integer", gjson.GetBytes(raw, "function.parameters.properties.id.type").String())
	assert.Equal(t, "string", gjson.GetBytes(raw, "function.parameters.properties.Mode.type").String())
}
