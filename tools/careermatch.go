package tools

import (
	"github.com/lazyeo/careermatch-ai-sub000/core"
)

// CareerMatchToolDefinitions returns the standard CareerMatch tool catalog.
// Descriptions are sent verbatim to the model and are part of the contract:
// rewording them changes model behavior.
func CareerMatchToolDefinitions() []core.ToolDefinition {
	return []core.ToolDefinition{
		{
			ToolName:        "scrape_job_posting",
			ToolDescription: "Fetch a job posting from a URL and return its structured fields (title, company, location, description, requirements, salary if listed). Use this when the user shares a job link. Do not save the job yet; present the analysis and ask for confirmation first.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"url": StringProperty("The job posting URL to fetch"),
			}, "url"),
		},
		{
			ToolName:        "save_job",
			ToolDescription: "Save a job posting to the user's tracker. Only call this after the user has explicitly confirmed they want the job saved. Returns the saved job's id.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"title":       StringProperty("Job title"),
				"company":     StringProperty("Company name"),
				"location":    StringProperty("Job location, if known"),
				"url":         StringProperty("Original posting URL"),
				"description": StringProperty("Full or summarized job description"),
				"status": StringEnumProperty("Initial tracking status",
					"interested", "applied", "interviewing", "offer", "rejected"),
			}, "title", "company"),
		},
		{
			ToolName:        "analyze_job_match",
			ToolDescription: "Compare a job posting against the user's resume and profile. Returns a match score, matched skills, missing skills, and tailored talking points.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"job_id":          StringProperty("Id of a saved job to analyze"),
				"job_description": StringProperty("Raw job description text, when the job is not saved yet"),
			}),
		},
		{
			ToolName:        "parse_resume_text",
			ToolDescription: "Extract structured data (skills, roles, education, years of experience) from raw resume text. Use when the user pastes resume content.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"text": StringProperty("Raw resume text to parse"),
			}, "text"),
		},
		{
			ToolName:        "import_jobs",
			ToolDescription: "Import multiple job postings at once from a list of URLs. Each URL is scraped and saved. Use only when the user explicitly asks for a bulk import.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"urls": ArrayProperty("Job posting URLs to import", StringProperty("A job posting URL")),
			}, "urls"),
		},
		{
			ToolName:        "list_saved_jobs",
			ToolDescription: "List the user's saved jobs, optionally filtered by tracking status.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"status": StringEnumProperty("Filter by tracking status",
					"interested", "applied", "interviewing", "offer", "rejected"),
				"limit": IntegerProperty("Maximum number of jobs to return (default: 20)"),
			}),
		},
	}
}

// CareerMatchTools creates Tool instances for the standard catalog using
// the given executor.
func CareerMatchTools(executor core.ToolExecutor) []core.Tool {
	definitions := CareerMatchToolDefinitions()
	tools := make([]core.Tool, len(definitions))
	for i, def := range definitions {
		tools[i] = core.NewExecutorTool(def, executor)
	}
	return tools
}
