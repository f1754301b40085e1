// Package prompt renders the agent's system prompt. Build is a pure
// function: the same profile, facts, and memories always produce the same
// text, which keeps it testable with golden comparisons.
package prompt

import (
	"fmt"
	"strings"

	"github.com/lazyeo/careermatch-ai-sub000/core"
	"github.com/lazyeo/careermatch-ai-sub000/memory"
)

// Preamble describes the agent's role. Part of the model contract: wording
// changes change behavior.
const Preamble = `You are CareerMatch, an AI career assistant. You help the user track job postings, analyze how well they match the user's background, and keep their job search organized.`

// Instructions is the fixed block of output-format and workflow rules.
const Instructions = `INSTRUCTIONS:
- When you are not calling a tool, respond with a single JSON object:
  {"content": "...", "actions": [{"type": "navigate|execute|show_modal|confirm", "target": "...", "label": "..."}], "suggestions": ["..."]}
- "content" is required. "actions" and "suggestions" are optional.
- After analyzing a scraped job posting, ask the user for explicit confirmation before calling the save tool.
- Never invent job details; only report what tools returned.
- Keep responses concise and concrete.`

// Build renders the system prompt from a profile snapshot, the user's
// facts, and retrieved memories. Missing sections render explicit
// placeholders so the model is never left guessing.
func Build(profile *core.Profile, facts []memory.Fact, memories []memory.SearchResult) string {
	var b strings.Builder

	b.WriteString(Preamble)
	b.WriteString("\n\n")

	writeProfile(&b, profile)
	b.WriteString("\n")
	writeFacts(&b, facts)
	b.WriteString("\n")
	writeMemories(&b, memories)
	b.WriteString("\n")
	b.WriteString(Instructions)

	return b.String()
}

func writeProfile(b *strings.Builder, profile *core.Profile) {
	b.WriteString("USER PROFILE:\n")
	if profile == nil {
		b.WriteString("No profile on record.\n")
		return
	}

	if profile.Name != "" {
		fmt.Fprintf(b, "Name: %s\n", profile.Name)
	}
	if profile.Headline != "" {
		fmt.Fprintf(b, "Headline: %s\n", profile.Headline)
	}
	if profile.Location != "" {
		fmt.Fprintf(b, "Location: %s\n", profile.Location)
	}
	if profile.YearsOfExp > 0 {
		fmt.Fprintf(b, "Experience: %d years\n", profile.YearsOfExp)
	}
	if len(profile.TargetRoles) > 0 {
		fmt.Fprintf(b, "Target roles: %s\n", strings.Join(profile.TargetRoles, ", "))
	}
	if len(profile.TopSkills) > 0 {
		fmt.Fprintf(b, "Top skills: %s\n", strings.Join(profile.TopSkills, ", "))
	}
}

func writeFacts(b *strings.Builder, facts []memory.Fact) {
	b.WriteString("KNOWN FACTS:\n")
	if len(facts) == 0 {
		b.WriteString("No facts yet.\n")
		return
	}
	for _, f := range facts {
		verified := ""
		if f.IsVerified {
			verified = ", verified"
		}
		fmt.Fprintf(b, "- [%s%s] %s\n", f.Category, verified, f.Content)
	}
}

func writeMemories(b *strings.Builder, memories []memory.SearchResult) {
	b.WriteString("RELEVANT PAST INTERACTIONS:\n")
	if len(memories) == 0 {
		b.WriteString("No memories found.\n")
		return
	}
	for i, m := range memories {
		fmt.Fprintf(b, "%d. %s\n", i+1, m.Record.Content)
	}
}
