package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fairway-oom/internal/metrics"
	"github.com/mauv0809/fairway-oom/internal/notifier"
	"github.com/mauv0809/fairway-oom/internal/oom"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// maxTableRows keeps season messages under the Block Kit limit of 50 blocks.
const maxTableRows = 40

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// A nil api turns every send into a logged dry run, for deployments without Slack.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionText(message.Text, false),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendResultsNotification(event oom.Event, results []oom.ResultRecord, dryRun bool) error {
	msg := s.formatResults(event, results)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendSeasonStandings(title string, table []oom.SeasonEntry, dryRun bool) error {
	msg := s.formatSeason(title, table)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatSeasonResponse formats the season table for a slash command response.
func (s *Notifier) FormatSeasonResponse(title string, table []oom.SeasonEntry) (any, error) {
	return s.formatSeason(title, table), nil
}

// FormatResultsResponse formats an event's results for a slash command response.
func (s *Notifier) FormatResultsResponse(event oom.Event, results []oom.ResultRecord) (any, error) {
	return s.formatResults(event, results), nil
}

// FormatNotFoundResponse formats a message for an unknown event.
func (s *Notifier) FormatNotFoundResponse(query string) (any, error) {
	text := fmt.Sprintf("Sorry, I couldn't find an event matching *%s*.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	), nil
}

func medal(position int) string {
	switch position {
	case 1:
		return ":first_place_medal: "
	case 2:
		return ":second_place_medal: "
	case 3:
		return ":third_place_medal: "
	}
	return ""
}

func formatScore(score float64) string {
	if score == float64(int64(score)) {
		return fmt.Sprintf("%d", int64(score))
	}
	return fmt.Sprintf("%.1f", score)
}

// formatResults creates the Slack message for a published event using Block Kit.
func (s *Notifier) formatResults(event oom.Event, results []oom.ResultRecord) slack.Message {
	blocks := make([]slack.Block, 0)

	title := event.Name
	if title == "" {
		title = event.ID
	}
	headerText := slack.NewTextBlockObject("plain_text", ":golf: Results: "+title, true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	details := fmt.Sprintf("Date: %s | Format: %s", event.Date, event.ScoringMode)
	if event.OOMEligible {
		details += " | Order of Merit event"
	}
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", details, true, false)))

	if len(results) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No results have been published for this event.", true, false), nil, nil))
		msg := slack.NewBlockMessage(blocks...)
		msg.Text = "Results: " + title
		return msg
	}

	var lines []string
	for i, rec := range results {
		if i == maxTableRows {
			lines = append(lines, fmt.Sprintf("…and %d more", len(results)-maxTableRows))
			break
		}
		unit := "pts"
		if rec.ScoreType == oom.ModeStrokeplay {
			unit = "strokes"
		}
		lines = append(lines, fmt.Sprintf("%d. %s*%s* %s %s (%d OOM pts)", rec.Position, medal(rec.Position), rec.MemberName, formatScore(rec.Score), unit, rec.Points))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))

	msg := slack.NewBlockMessage(blocks...)
	msg.Text = "Results: " + title
	return msg
}

// formatSeason creates the Slack message for the Order of Merit table using Block Kit.
func (s *Notifier) formatSeason(title string, table []oom.SeasonEntry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", ":trophy: "+title, true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(table) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No points scored yet. Get out on the course!", true, false), nil, nil))
		msg := slack.NewBlockMessage(blocks...)
		msg.Text = title
		return msg
	}

	for i, entry := range table {
		if i == maxTableRows {
			more := fmt.Sprintf("…and %d more", len(table)-maxTableRows)
			blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", more, true, false)))
			break
		}
		line := fmt.Sprintf("%d. %s%s\n> Points: %d | Wins: %d | Events: %d",
			entry.Rank,
			medal(entry.Rank),
			entry.MemberName,
			entry.TotalPoints,
			entry.Wins,
			entry.Appearances,
		)
		if entry.HandicapIndex != nil {
			line += fmt.Sprintf(" | HI: %.1f", *entry.HandicapIndex)
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", line, false, false), nil, nil))
	}

	msg := slack.NewBlockMessage(blocks...)
	msg.Text = title
	return msg
}
