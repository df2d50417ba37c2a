package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	seasonYear int
	seasonAll  bool
	outFile    string
)

func init() {
	rootCmd.AddCommand(healthCmd, statsCmd, metricsCmd, membersCmd, eventsCmd, leaderboardCmd,
		publishCmd, unpublishCmd, resultsCmd, exportCmd, seasonCmd, announceCmd)

	for _, cmd := range []*cobra.Command{seasonCmd, announceCmd} {
		cmd.Flags().IntVar(&seasonYear, "year", 0, "Only count events of this year")
		cmd.Flags().BoolVar(&seasonAll, "all", false, "Count every published event, not only Order of Merit events")
	}
	seasonCmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the season as an XLSX workbook to this file")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the backup to this file instead of stdout")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil, "")
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime publish counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/stats", nil, "")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil, "")
	},
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List the members of the society",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/members", nil, "")
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the events of the society",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/events", nil, "")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [event-id]",
	Short: "Preview the leaderboard of an event without publishing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/events/"+url.PathEscape(args[0])+"/leaderboard", nil, "")
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish [event-id]",
	Short: "Publish the results of an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/events/"+url.PathEscape(args[0])+"/publish", nil, "")
	},
}

var unpublishCmd = &cobra.Command{
	Use:   "unpublish [event-id]",
	Short: "Remove the published results of an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/events/"+url.PathEscape(args[0])+"/unpublish", nil, "")
	},
}

var resultsCmd = &cobra.Command{
	Use:   "results [event-id]",
	Short: "Show the published results of an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/events/"+url.PathEscape(args[0])+"/results", nil, "")
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [event-id]",
	Short: "Download a JSON backup of an event's results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/events/"+url.PathEscape(args[0])+"/results/export", nil, outFile)
	},
}

var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Show the Order of Merit",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/season"
		if outFile != "" {
			endpoint = "/season/export.xlsx"
		}
		return performRequest(http.MethodGet, endpoint, seasonQuery(), outFile)
	},
}

var announceCmd = &cobra.Command{
	Use:   "announce",
	Short: "Post the Order of Merit to Slack",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/season/announce", seasonQuery(), "")
	},
}

func seasonQuery() url.Values {
	q := url.Values{}
	if seasonYear != 0 {
		q.Set("year", strconv.Itoa(seasonYear))
	}
	if seasonAll {
		q.Set("oom", "all")
	}
	return q
}

// performRequest calls the server and prints the response, or writes its body to outPath.
func performRequest(method, endpoint string, query url.Values, outPath string) error {
	if query == nil {
		query = url.Values{}
	}
	if societyID != "" {
		query.Set("society", societyID)
	}
	if dryRun {
		query.Set("dry_run", "true")
	}
	target := host + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	fmt.Fprintf(os.Stderr, "Making request to %s\n", target)

	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if outPath != "" && resp.StatusCode == http.StatusOK {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(f, resp.Body); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", outPath)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))
	return nil
}
