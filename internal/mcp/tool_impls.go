package mcp

import (
	"os"

	"repox/internal/envelope"
	"repox/internal/explorer"
	"repox/internal/project"
)

// SetRepoResult is the data of a successful set_repo call.
type SetRepoResult struct {
	Message string       `json:"message"`
	Path    string       `json:"path"`
	Project project.Info `json:"project"`
}

// StatusResult is the data of get_status.
type StatusResult struct {
	Version          string        `json:"version"`
	ProjectsRoot     string        `json:"projectsRoot"`
	ActiveRepository string        `json:"activeRepository,omitempty"`
	RepositoryValid  bool          `json:"repositoryValid"`
	Project          *project.Info `json:"project,omitempty"`
	SessionID        string        `json:"sessionId"`
	Journal          bool          `json:"journal"`
}

func (s *MCPServer) activeRepository() string {
	repo, _ := s.explorer.ActiveRepository()
	return repo
}

// toolListProjects implements the list_projects tool
func (s *MCPServer) toolListProjects(params map[string]interface{}) (*envelope.Response, error) {
	s.logger.Debug("Executing list_projects")

	projects := s.explorer.ListProjects()
	resp := NewToolResponse().Data(projects)

	root := s.explorer.ProjectsRoot()
	if _, err := os.Stat(root); err != nil {
		resp.Warning("Projects root does not exist: " + root)
	} else if len(projects) > 0 {
		resp.Suggest("set_repo", map[string]interface{}{"path": projects[0]}, "Select a repository to explore")
	}

	return resp.Build(), nil
}

// toolSetRepo implements the set_repo tool
func (s *MCPServer) toolSetRepo(params map[string]interface{}) (*envelope.Response, error) {
	path, err := requireString(params, "path")
	if err != nil {
		return nil, err
	}

	repo, err := s.explorer.SelectRepository(path)
	if err != nil {
		return nil, err
	}

	info := project.Detect(repo)
	s.logger.Debug("Detected project",
		"language", string(info.Language),
		"name", info.Name,
	)

	return NewToolResponse().
		Data(SetRepoResult{
			Message: "Active repository set to " + repo,
			Path:    repo,
			Project: info,
		}).
		Repository(repo).
		Build(), nil
}

// toolListAllFiles implements the list_all_files tool
func (s *MCPServer) toolListAllFiles(params map[string]interface{}) (*envelope.Response, error) {
	files, err := s.explorer.ListAllFiles()
	if err != nil {
		return nil, err
	}

	return NewToolResponse().
		Data(files).
		Repository(s.activeRepository()).
		Build(), nil
}

// toolReadFile implements the read_file tool
func (s *MCPServer) toolReadFile(params map[string]interface{}) (*envelope.Response, error) {
	relativePath, err := requireString(params, "relative_path")
	if err != nil {
		return nil, err
	}

	content, err := s.explorer.ReadFile(relativePath)
	if err != nil {
		return nil, err
	}

	return NewToolResponse().
		Data(content).
		Repository(s.activeRepository()).
		Build(), nil
}

// toolCountFiles implements the count_files tool
func (s *MCPServer) toolCountFiles(params map[string]interface{}) (*envelope.Response, error) {
	count, err := s.explorer.CountFiles()
	if err != nil {
		return nil, err
	}

	return NewToolResponse().
		Data(count).
		Repository(s.activeRepository()).
		Build(), nil
}

// toolSearchInRepo implements the search_in_repo tool
func (s *MCPServer) toolSearchInRepo(params map[string]interface{}) (*envelope.Response, error) {
	query, err := requireString(params, "query")
	if err != nil {
		return nil, err
	}
	maxResults, err := intParam(params, "max_results", s.defaultMaxResults)
	if err != nil {
		return nil, err
	}

	matches, err := s.explorer.Search(query, maxResults)
	if err != nil {
		return nil, err
	}

	lines := make([]string, len(matches))
	for i, m := range matches {
		lines[i] = m.String()
	}

	return NewToolResponse().
		Data(lines).
		Repository(s.activeRepository()).
		WithTruncation(maxResults > 0 && len(lines) >= maxResults, len(lines), maxResults, "max-results").
		Build(), nil
}

// toolFindFiles implements the find_files tool
func (s *MCPServer) toolFindFiles(params map[string]interface{}) (*envelope.Response, error) {
	name, err := optionalString(params, "name_substring", "")
	if err != nil {
		return nil, err
	}
	extension, err := optionalString(params, "extension", "")
	if err != nil {
		return nil, err
	}
	maxResults, err := intParam(params, "max_results", s.defaultMaxResults)
	if err != nil {
		return nil, err
	}

	hits, err := s.explorer.FindFiles(explorer.FindOptions{
		NameSubstring: name,
		Extension:     extension,
		MaxResults:    maxResults,
	})
	if err != nil {
		return nil, err
	}

	return NewToolResponse().
		Data(hits).
		Repository(s.activeRepository()).
		WithTruncation(maxResults > 0 && len(hits) >= maxResults, len(hits), maxResults, "max-results").
		Build(), nil
}

// toolGetStatus implements the get_status tool
func (s *MCPServer) toolGetStatus(params map[string]interface{}) (*envelope.Response, error) {
	status := StatusResult{
		Version:      s.version,
		ProjectsRoot: s.explorer.ProjectsRoot(),
		SessionID:    s.sessionID,
		Journal:      s.journal != nil,
	}

	if repo, ok := s.explorer.ActiveRepository(); ok {
		status.ActiveRepository = repo
		if info, err := os.Stat(repo); err == nil && info.IsDir() {
			status.RepositoryValid = true
			detected := project.Detect(repo)
			status.Project = &detected
		}
	}

	resp := NewToolResponse().Data(status)
	if !status.RepositoryValid {
		resp.Suggest("list_projects", nil, "Find a repository to select with set_repo")
	}
	return resp.Build(), nil
}
