package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `agencyops tracks a small agency's clients, sales leads, delivery projects with checklist tasks, and cash flow.

Core concepts:
- Client: a customer. Projects belong to exactly one client; deleting a client deletes its projects and their tasks.
- Lead: a prospect moving through new → contacted → qualified → proposal_sent → converted, or lost from any step.
  A lead is stale when it was created more than 7 days ago and has not converted.
- Project: pending → in_progress → completed. Progress comes from completed tasks, or from the status when there are none.
- Task: a checklist item, pending or completed.
- Transaction: an income or expense. Amount is always positive; the type carries the sign. No status means paid.

Workflow:
1) Orient: get_dashboard, then list_* tools or get_client_overview.
2) Mutate with the create_/update_/delete_ tools. Every mutation returns the stored record.
3) advance_project, set_lead_status and toggle_task also return the refreshed board, pipeline or checklist.
4) Money is a decimal string in responses. Dates are YYYY-MM-DD in requests.

Docs:
- agencyops://docs/workflows
- agencyops://docs/metrics
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
		URI:         "agencyops://docs/workflows",
		Name:        "docs_workflows",
		Title:       "Status workflows",
		Description: "Lead, project and task status machines and which tool drives each move.",
		Content: `# Status workflows

## Leads

| From | Offered next |
|---|---|
| new | contacted, lost |
| contacted | qualified, lost |
| qualified | proposal_sent, lost |
| proposal_sent | converted, lost |
| converted, lost | nothing |

set_lead_status accepts any status, including moves out of converted or lost.
list_leads returns next_statuses per lead for the forward offering.

## Projects

- advance_project: pending → in_progress, anything else → completed. Completed projects stay put.
- set_project_status: any status, backwards included.

## Tasks

- add_task with a blank title does nothing and returns added=false.
- toggle_task flips pending and completed.
`,
	},
	{
		URI:         "agencyops://docs/metrics",
		Name:        "docs_metrics",
		Title:       "Derived figures",
		Description: "How dashboard, client and financial figures are computed.",
		Content: `# Derived figures

- Dashboard revenue: income minus expenses over every transaction, paid or not.
- Active projects (dashboard): projects not completed.
- Financial summary: income counts paid transactions only and pending income is listed apart. Expenses count regardless of status.
  Balance = income − expenses. Margin = balance / income × 100, or 0 without income.
- Client overview: total invested sums project values, active projects counts in_progress only,
  pending tasks counts open tasks across the client's projects.
- Negative amounts never reduce a total; they count as zero.
- Recent activity: newest projects and leads merged by creation time.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
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
