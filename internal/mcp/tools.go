package mcp

import "repox/internal/envelope"

// Tool represents a repox tool exposed via MCP
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolHandler is a function that handles a tool call and returns an envelope response.
type ToolHandler func(params map[string]interface{}) (*envelope.Response, error)

func noParams() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// GetToolDefinitions returns all tool definitions
func (s *MCPServer) GetToolDefinitions() []Tool {
	maxResults := map[string]interface{}{
		"type":        "integer",
		"default":     s.defaultMaxResults,
		"description": "Stop after this many results",
	}

	return []Tool{
		{
			Name:        "list_projects",
			Description: "Return the names of the folders under the projects root. These are candidates for set_repo.",
			InputSchema: noParams(),
		},
		{
			Name: "set_repo",
			Description: "Set the repository to explore. An absolute path is used directly; a relative path " +
				"is looked up under the projects root. All other repository tools use this selection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path, ~/path, or a name under the projects root",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "list_all_files",
			Description: "List every file in the active repository as a path relative to its root.",
			InputSchema: noParams(),
		},
		{
			Name:        "read_file",
			Description: "Return the full text content of a file in the active repository.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"relative_path": map[string]interface{}{
						"type":        "string",
						"description": "Path of the file relative to the repository root",
					},
				},
				"required": []string{"relative_path"},
			},
		},
		{
			Name:        "count_files",
			Description: "Return the number of files in the active repository.",
			InputSchema: noParams(),
		},
		{
			Name: "search_in_repo",
			Description: "Search every file in the active repository for lines containing a literal, " +
				"case-sensitive string. Returns lines in the form \"path:line: snippet\".",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Text to look for",
					},
					"max_results": maxResults,
				},
				"required": []string{"query"},
			},
		},
		{
			Name: "find_files",
			Description: "Find files by name substring and/or extension, e.g. name_substring=\"auth\" " +
				"with extension=\".py\", or only extension=\".sql\".",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name_substring": map[string]interface{}{
						"type":        "string",
						"default":     "",
						"description": "Substring the file name must contain",
					},
					"extension": map[string]interface{}{
						"type":        "string",
						"description": "Suffix the file name must end with, including the dot",
					},
					"max_results": maxResults,
				},
			},
		},
		{
			Name:        "get_status",
			Description: "Report the active repository, its detected project type, and the projects root.",
			InputSchema: noParams(),
		},
	}
}

// RegisterTools registers all tool handlers
func (s *MCPServer) RegisterTools() {
	s.tools["list_projects"] = s.toolListProjects
	s.tools["set_repo"] = s.toolSetRepo
	s.tools["list_all_files"] = s.toolListAllFiles
	s.tools["read_file"] = s.toolReadFile
	s.tools["count_files"] = s.toolCountFiles
	s.tools["search_in_repo"] = s.toolSearchInRepo
	s.tools["find_files"] = s.toolFindFiles
	s.tools["get_status"] = s.toolGetStatus
}
