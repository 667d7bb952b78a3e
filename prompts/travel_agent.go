package prompts

// DefaultTravelAgentPrompt is the main prompt of the travel assistant.
const DefaultTravelAgentPrompt = `You are a helpful travel agent. Answer the traveller's question with a clear, practical plan.
Prefer facts returned by your tools over your own knowledge, and say so when a tool could not find anything.`

// AgentPromptData contains data for the agent system prompt template.
type AgentPromptData struct {
	MainAgentSystemPrompt string
	SkillSystemPrompts    []string
	ToolNames             []string
	Today                 string
}

// AgentPromptTemplate is the template for the agent system prompt.
const AgentPromptTemplate = `
{{ .MainAgentSystemPrompt }}
{{ range .SkillSystemPrompts }}
{{ . }}
{{ end }}
{{- if .ToolNames }}
You can use the tools {{ formatToolNames .ToolNames }} to look up places. Pass the city or place name as the place argument.
{{- end }}
{{- if .Today }}

Today's date is {{ .Today }}.
{{- end }}`

// AgentPrompt creates the agent system prompt by applying the provided data.
func AgentPrompt(data AgentPromptData) (string, error) {
	return generateFromTemplate(AgentPromptTemplate, data)
}
