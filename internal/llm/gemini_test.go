package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGenaiSchema(t *testing.T) {
	schema := &Schema{
		Type: TypeArray,
		Items: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"name": {Type: TypeString, Description: "Name"},
				"tags": {Type: TypeArray, Items: &Schema{Type: TypeString}},
			},
			Required: []string{"name", "tags"},
		},
	}

	out := toGenaiSchema(schema)
	require.NotNil(t, out.Items)
	assert.Equal(t, genai.TypeArray, out.Type)
	assert.Equal(t, genai.TypeObject, out.Items.Type)
	assert.Equal(t, []string{"name", "tags"}, out.Items.Required)
	require.Contains(t, out.Items.Properties, "tags")
	assert.Equal(t, genai.TypeString, out.Items.Properties["tags"].Items.Type)
	assert.Equal(t, "Name", out.Items.Properties["name"].Description)
	assert.Nil(t, toGenaiSchema(nil))
}
