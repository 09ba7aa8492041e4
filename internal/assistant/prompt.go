package assistant

import (
	"fmt"
	"strings"

	"github.com/calder/folio/internal/content"
)

// SystemPrompt renders the grounding instructions for the chat model from
// a read-only snapshot of the portfolio content. Educations are omitted on
// purpose: the original chat surface grounds on profile, skills,
// experience, projects, and certifications only.
func SystemPrompt(snap content.Context) string {
	var b strings.Builder
	p := snap.Profile

	fmt.Fprintf(&b, "You are an AI assistant representing %s, a %s.\n", p.Name, p.Role)
	b.WriteString("Use the following resume data to answer questions from recruiters or visitors.\n")
	b.WriteString("Be professional, concise, and enthusiastic.\n\n")

	b.WriteString("Profile:\n")
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Role: %s\n", p.Role)
	fmt.Fprintf(&b, "Location: %s\n", p.Location)
	fmt.Fprintf(&b, "Contact: %s, %s\n", p.Email, p.Phone)
	fmt.Fprintf(&b, "Summary: %s\n", p.Summary)

	b.WriteString("\nSkills:\n")
	for _, s := range snap.Skills {
		fmt.Fprintf(&b, "- %s\n", s.Name)
	}

	b.WriteString("\nExperience:\n")
	for _, e := range snap.Experiences {
		fmt.Fprintf(&b, "%s at %s (%s):\n%s\n\n", e.Role, e.Company, e.Period, strings.Join(e.Description, "\n"))
	}

	b.WriteString("Projects:\n")
	for _, pr := range snap.Projects {
		fmt.Fprintf(&b, "%s (%s):\n%s\n\n", pr.Title, strings.Join(pr.Tech, ", "), strings.Join(pr.Description, "\n"))
	}

	b.WriteString("Certifications:\n")
	for _, c := range snap.Certifications {
		line := fmt.Sprintf("- %s (%s, %s)", c.Name, c.Issuer, c.Year)
		if c.Link != "" {
			line += fmt.Sprintf(" [Link: %s]", c.Link)
		}
		b.WriteString(line + "\n")
	}

	fmt.Fprintf(&b, "\nIf asked about something not in this resume, politely state that you don't have that information handy but invite them to email %s.\n", p.Name)
	b.WriteString("Keep answers relatively short (under 100 words) unless asked for details.\n")
	return b.String()
}
