package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `todos keeps organization projects and their tasks.

- Project: belongs to the caller's organization. Titles default to "Project N".
- Task: a title and a completed flag, under a project or, outside an organization, owned by the caller.

Workflow:
1) list_projects to find the project you work in (the first one is the default).
2) list_tasks with that project_id; omit project_id outside an organization.
3) add_task, set_task_completed, delete_task. Mutations return the affected task.

Docs: todos://docs/guide
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "todos://docs/guide",
		Name:        "guide",
		Title:       "todos guide",
		Description: "Scoping rules and error codes for the todos tools.",
		Content: `# todos guide

## Scoping

Calls run as the signed-in user. With an organization, projects and tasks
are limited to that organization and list_tasks needs a project_id (the
first project when omitted). Without an organization there are no projects
and tasks are the user's own.

## Errors

- VALIDATION_FAILED: a required field is empty; details names the field.
- PROJECT_NOT_FOUND / TASK_NOT_FOUND: unknown or out-of-scope id.
- NO_ORGANIZATION: the tool needs an organization.
- UNAUTHORIZED: missing or invalid bearer token.

Failures never change state. Retry by calling the tool again.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
