package reconcile

import (
	"encoding/json"
	"fmt"
)

// The command text is wrapped in #### delimiters inside the user
// message so instruction-like phrasing in it cannot escape into the
// prompt.
const commandDelimiter = "####"

const affectedDaysPromptTemplate = `You are a scheduling assistant. The user will provide a message with changes to their weekly availability in natural language enclosed in %[1]s (e.g., "Add M-F 9 AM - 5 PM with a break from 1 PM to 2 PM" or "Remove Wednesdays").

Your task is to figure out which days are affected by the message.

- Start with tomorrow (%[2]s) and continue for %[3]d days.
- If no specific days are mentioned, return all days (no more than %[3]d days out).
- Do not go past %[4]s.
- The user's IANA timezone is %[5]s.
- Double-check that the days of the week requested are correct.
- Return a JSON object with a dates array of strings with the date in the format YYYY-MM-DD.
- Determine if the user is asking to update or remove existing entries rather than freely adding new ones. If so, return an isUpdate flag with the value true.

Example:
Message: "Add M-F 9 AM - 5 PM with a break from 1 PM to 2 PM"
Return: {"dates": ["2025-08-08", "2025-08-11", "2025-08-12", "2025-08-13", "2025-08-14", ...], "isUpdate": false}

Message: "Remove Wednesdays"
Return: {"dates": ["2025-08-06", "2025-08-13", "2025-08-20", "2025-08-27", "2025-09-03", ...], "isUpdate": true}`

// affectedDaysPrompt builds the horizon resolution system prompt.
func affectedDaysPrompt(tomorrow, horizonEnd, timezone string) string {
	return fmt.Sprintf(affectedDaysPromptTemplate,
		commandDelimiter, tomorrow, MaxDaysPerRequest, horizonEnd, timezone)
}

const dayDiffPromptTemplate = `You are a scheduling assistant. The user will provide a message with changes to their weekly availability in natural language enclosed in %[1]s (e.g., "Add M-F 9 AM - 5 PM with a break from 1 PM to 2 PM" or "Remove Wednesdays").

Your task is to generate a new schedule based on the message and the current schedule.

- The user's IANA timezone is %[2]s.
- The day is %[3]s.
- The current schedule is %[4]s.
- Return a JSON object with the add/update/delete schedule changes.
- If no changes are needed, return an empty array for each type.
- If the user asks for a change, look to see what schedules it intersects with. Update the schedule to match the new schedule. Add new items if needed. Delete items if needed.

Format should be:
{
  "add": [AddScheduleItem, ...],
  "update": [UpdateScheduleItem, ...],
  "delete": [DeleteScheduleItem, ...]
}

AddScheduleItem:
{
  "startTime": "2025-08-07T09:00:00-04:00",
  "endTime": "2025-08-07T13:00:00-04:00"
}

UpdateScheduleItem:
{
  "id": "123",
  "startTime": "2025-08-07T09:00:00-04:00",
  "endTime": "2025-08-07T13:00:00-04:00"
}

DeleteScheduleItem:
{
  "id": "123"
}`

// dayDiffPrompt builds the per-day reconciliation system prompt. Only
// the target day's entries are supplied so the service reasons about a
// small, bounded state.
func dayDiffPrompt(timezone, day string, schedule []ScheduleEntry) (string, error) {
	scheduleJSON, err := json.MarshalIndent(schedule, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(dayDiffPromptTemplate,
		commandDelimiter, timezone, day, string(scheduleJSON)), nil
}

// wrapCommand encloses the raw command in delimiters for the user
// message.
func wrapCommand(message string) string {
	return commandDelimiter + message + commandDelimiter
}
