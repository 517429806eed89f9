package concierge

import (
	"fmt"
	"strings"

	"github.com/lewisedginton/teambuilder_concierge/internal/tools"
	"github.com/lewisedginton/teambuilder_concierge/internal/tools/draft_message"
	"github.com/lewisedginton/teambuilder_concierge/pkg/utils"
)

const (
	MsgMoreDetail = "Please provide more details so I can run a tool."
	MsgNoMatches  = "No matching candidates were found for the given skills."
	MsgNoResponse = "No response generated."
)

// Reply is the rendered text plus the users it mentions.
type Reply struct {
	Text      string
	Mentioned []MentionedEntity
}

// Respond renders a plan and its tool result. The text is never empty.
func Respond(plan Plan, result tools.Result) Reply {
	reply := Reply{Mentioned: []MentionedEntity{}}

	switch plan.Tool {
	case tools.None:
		reply.Text = MsgMoreDetail
		if q := utils.Deref(plan.ClarifyingQuestion, ""); strings.TrimSpace(q) != "" {
			reply.Text = q
		}

	case tools.SearchCandidates:
		if len(result.Candidates) == 0 {
			reply.Text = MsgNoMatches
			break
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Found %d matching candidate(s):", len(result.Candidates))
		for i, c := range result.Candidates {
			skills := "no skills listed"
			if len(c.Skills) > 0 {
				skills = strings.Join(c.Skills, ", ")
			}
			fmt.Fprintf(&b, "\n%d. %s (%s)", i+1, c.Name, skills)
			reply.Mentioned = append(reply.Mentioned, MentionedEntity{
				ID:     c.ID,
				Name:   c.Name,
				Skills: append([]string{}, c.Skills...),
			})
		}
		reply.Text = b.String()

	case tools.DraftMessage:
		reply.Text = draft_message.Placeholder
		if strings.TrimSpace(result.Draft) != "" {
			reply.Text = result.Draft
		}
	}

	if reply.Text == "" {
		reply.Text = MsgNoResponse
	}
	return reply
}
