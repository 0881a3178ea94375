package ai

import (
	"strings"
	"time"
)

// buildIntentPrompt constructs the analysis prompt for one transcript.
// The schema here is the contract the router consumes; keep the two in sync.
func buildIntentPrompt(transcript string) string {
	var b strings.Builder

	b.WriteString("You are the intent classifier for a personal expense tracker.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Classify the user's message into exactly one intent.\n")
	b.WriteString("- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n")
	b.WriteString("- Output a single JSON object.\n\n")

	b.WriteString("Intents and their payloads:\n")
	b.WriteString("- \"LOG_EXPENSE\": the user spent money. Include \"data\" with fields\n")
	b.WriteString("  \"date\" (YYYY-MM-DD, today if unstated), \"item\", \"amount\" (number),\n")
	b.WriteString("  \"currency\", \"merchant\", \"category\".\n")
	b.WriteString("- \"QUERY_SPENDING\": the user asks about past spending. Include \"query\" with\n")
	b.WriteString("  \"category\", \"merchant\", \"item\", \"start_date\", \"end_date\".\n")
	b.WriteString("  Dates may be YYYY-MM-DD or the tokens \"TODAY\" and \"7_DAYS_AGO\".\n")
	b.WriteString("  Use the string \"null\" for any filter the user did not mention.\n")
	b.WriteString("- \"EDIT_EXPENSE\": the user corrects an earlier expense. Include \"edit\" with\n")
	b.WriteString("  \"target_item\", \"target_date\" (YYYY-MM-DD, or \"LAST_MATCH\" when the user\n")
	b.WriteString("  means their most recent mention), \"new_amount\" (number), \"new_currency\".\n")
	b.WriteString("- \"UNDO_LAST\": the user wants the last entry removed. No payload.\n")
	b.WriteString("- \"UNRECOGNIZED\": anything else. No payload.\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- Today's date is " + time.Now().Format("2006-01-02") + ".\n")
	b.WriteString("- Amounts are plain numbers, never strings.\n")
	b.WriteString("- Return ONLY valid raw JSON.\n")
	b.WriteString("- Do NOT wrap the response in code fences.\n")
	b.WriteString("- Do NOT use ```json or any Markdown.\n")
	b.WriteString("- Output must begin with \"{\" and end with \"}\".\n\n")

	b.WriteString("User message:\n")
	b.WriteString(transcript)

	return b.String()
}
