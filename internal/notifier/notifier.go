package notifier

import "github.com/mauv0809/fairway-oom/internal/oom"

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For published events
	SendResultsNotification(event oom.Event, results []oom.ResultRecord, dryRun bool) error
	// For the season table
	SendSeasonStandings(title string, table []oom.SeasonEntry, dryRun bool) error

	// For formatting responses for slash commands
	FormatSeasonResponse(title string, table []oom.SeasonEntry) (any, error)
	FormatResultsResponse(event oom.Event, results []oom.ResultRecord) (any, error)
	FormatNotFoundResponse(query string) (any, error)
}
