package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/inclusivevents/client/internal/domain/events"
)

var (
	eventsLocale string
	eventsFormat string
	eventsSearch string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Browse the event catalog",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		env, err := app.client.ListEvents(cmd.Context(), eventsLocale)
		if err != nil {
			return err
		}
		list, err := events.ParseList(env.Data)
		if err != nil {
			return err
		}
		list = filterEvents(list, eventsSearch)

		if eventsFormat == "json" {
			return printJSON(cmd, list)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTART\tLOCATION")
		for _, e := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				eventKey(e), truncate(e.Name, 40), e.EventType,
				formatTime(e.StartTime), locationName(e))
		}
		return w.Flush()
	},
}

var eventsShowCmd = &cobra.Command{
	Use:   "show <event-id>",
	Short: "Show one event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		env, err := app.client.GetEvent(cmd.Context(), args[0], eventsLocale)
		if err != nil {
			return err
		}
		event, err := events.Parse(env.Data)
		if err != nil {
			return err
		}

		if eventsFormat == "json" {
			return printJSON(cmd, event)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name:       %s\n", event.Name)
		if event.EventType != "" {
			fmt.Fprintf(out, "Type:       %s\n", event.EventType)
		}
		fmt.Fprintf(out, "Start:      %s\n", formatTime(event.StartTime))
		if !event.EndTime.IsZero() {
			fmt.Fprintf(out, "End:        %s\n", formatTime(event.EndTime))
		}
		if event.Location != nil {
			fmt.Fprintf(out, "Location:   %s\n", event.Location.Name)
			if addr := event.Location.Address(); addr != "" {
				fmt.Fprintf(out, "Address:    %s\n", addr)
			}
		}
		if len(event.Organizers) > 0 {
			names := make([]string, 0, len(event.Organizers))
			for _, o := range event.Organizers {
				names = append(names, o.Name)
			}
			fmt.Fprintf(out, "Organizers: %s\n", strings.Join(names, ", "))
		}
		for _, feature := range event.AccessibilityFeatures {
			line := feature.Name
			if url := app.media.ResolveFile(feature.Icon); url != "" {
				line += " (" + url + ")"
			}
			fmt.Fprintf(out, "Access:     %s\n", line)
		}
		if text := event.Description.Plain(); text != "" {
			fmt.Fprintf(out, "\n%s\n", text)
		}
		return nil
	},
}

var eventsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the event catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		env, err := app.client.ListEvents(cmd.Context(), eventsLocale)
		if err != nil {
			return err
		}
		list, err := events.ParseList(env.Data)
		if err != nil {
			return err
		}

		total, upcoming, organizers := eventStats(list, time.Now())
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Events:     %d\n", total)
		fmt.Fprintf(out, "Upcoming:   %d\n", upcoming)
		fmt.Fprintf(out, "Organizers: %d\n", organizers)
		return nil
	},
}

// filterEvents keeps events whose name or description contains query,
// case-insensitive. An empty query keeps everything.
func filterEvents(list []events.Event, query string) []events.Event {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list
	}
	filtered := make([]events.Event, 0, len(list))
	for _, e := range list {
		if strings.Contains(strings.ToLower(e.Name), query) ||
			strings.Contains(strings.ToLower(e.Description.Plain()), query) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// eventStats reports the catalog totals shown on the landing view: event
// count, events starting after now, and distinct organizer names.
func eventStats(list []events.Event, now time.Time) (total, upcoming, organizers int) {
	seen := make(map[string]bool)
	for _, e := range list {
		if e.StartTime.After(now) {
			upcoming++
		}
		for _, o := range e.Organizers {
			if o.Name != "" && !seen[o.Name] {
				seen[o.Name] = true
			}
		}
	}
	return len(list), upcoming, len(seen)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func eventKey(e events.Event) string {
	if e.DocumentID != "" {
		return e.DocumentID
	}
	return fmt.Sprintf("%d", e.ID)
}

func locationName(e events.Event) string {
	if e.Location == nil {
		return ""
	}
	return e.Location.Name
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func init() {
	eventsCmd.PersistentFlags().StringVar(&eventsLocale, "locale", "", "content locale (default from config)")
	eventsCmd.PersistentFlags().StringVar(&eventsFormat, "format", "table", "output format (table, json)")
	eventsListCmd.Flags().StringVar(&eventsSearch, "search", "", "filter by name or description")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsShowCmd)
	eventsCmd.AddCommand(eventsStatsCmd)
	rootCmd.AddCommand(eventsCmd)
}
