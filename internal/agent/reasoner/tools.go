package reasoner

import (
	"datachat/internal/agent"
	"datachat/pkg/llmprovider"
)

// toolDeclarations maps every action in the vocabulary to its function
// declaration. The graph node decides which subset is offered.
var toolDeclarations = map[agent.ActionName]llmprovider.Tool{
	agent.ActionListTables: {
		Name:        string(agent.ActionListTables),
		Description: "List all base tables in the database.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	agent.ActionGetSchema: {
		Name:        string(agent.ActionGetSchema),
		Description: "Fetch the column/type schema for the named tables.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tables": map[string]any{
					"type":        "string",
					"description": "Comma-separated list of table names.",
				},
			},
			"required": []string{"tables"},
		},
	},
	agent.ActionCheckQuery: {
		Name:        string(agent.ActionCheckQuery),
		Description: "Validate a candidate SQL query before executing it.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The SQL query to validate.",
				},
			},
			"required": []string{"query"},
		},
	},
	agent.ActionExecuteQuery: {
		Name:        string(agent.ActionExecuteQuery),
		Description: "Execute a read-only SQL query and return the result rows.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The SQL query to execute.",
				},
			},
			"required": []string{"query"},
		},
	},
	agent.ActionSubmitFinalAnswer: {
		Name:        string(agent.ActionSubmitFinalAnswer),
		Description: "Submit the final answer to the user based on the query results.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"final_answer": map[string]any{
					"type":        "string",
					"description": "The final answer to the user.",
				},
			},
			"required": []string{"final_answer"},
		},
	},
}

func declarationsFor(allowed []agent.ActionName) []llmprovider.Tool {
	tools := make([]llmprovider.Tool, 0, len(allowed))
	for _, name := range allowed {
		if decl, ok := toolDeclarations[name]; ok {
			tools = append(tools, decl)
		}
	}
	return tools
}
