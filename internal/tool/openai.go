package tool

import (
	"github.com/openai/openai-go/v2"
)

// OpenAIDefinition returns t as a function tool for chat completion requests.
func OpenAIDefinition(t Tool) openai.ChatCompletionToolUnionParam {
	return openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
		Name:        t.Name(),
		Description: openai.String(t.Description()),
		Parameters:  openai.FunctionParameters(ParameterSchema(t.Parameters())),
	})
}

func (r *Registry) OpenAITools() []openai.ChatCompletionToolUnionParam {
	tools := r.List()
	defs := make([]openai.ChatCompletionToolUnionParam, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, OpenAIDefinition(t))
	}
	return defs
}
