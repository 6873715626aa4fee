package logs

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/crucial707/stockroom/cmd/cli/api"
	"github.com/crucial707/stockroom/cmd/cli/output"
	"github.com/crucial707/stockroom/cmd/cli/root"
	"github.com/crucial707/stockroom/internal/models"
)

func Register(rootCmd *cobra.Command) {
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Read and append the activity log",
	}
	logsCmd.AddCommand(listCmd(), createCmd())
	rootCmd.AddCommand(logsCmd)
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the activity log, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := api.Authed()
			if err != nil {
				return err
			}
			var entries []models.LogEntry
			raw, err := client.Do(cmd.Context(), http.MethodGet, "/api/logs", nil, &entries)
			if err != nil {
				return err
			}
			if root.JSON(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), raw)
			}

			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				count := ""
				if e.Count != nil {
					count = fmt.Sprint(*e.Count)
				}
				rows = append(rows, []interface{}{e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Username, e.Activity, count})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"When", "User", "Activity", "Count"}, rows)
			return nil
		},
	}
}

func createCmd() *cobra.Command {
	var username, activity, createdBy string
	var count int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Append an activity entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := api.Authed()
			if err != nil {
				return err
			}
			if createdBy == "" {
				createdBy = username
			}
			body := map[string]any{
				"username":  username,
				"activity":  activity,
				"createdBy": createdBy,
			}
			if cmd.Flags().Changed("count") {
				body["count"] = count
			}
			var out struct {
				Log models.LogEntry `json:"log"`
			}
			if _, err := client.Do(cmd.Context(), http.MethodPost, "/api/logs/create", body, &out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Log %d created.\n", out.Log.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "User the entry is about")
	cmd.Flags().StringVar(&activity, "activity", "", "What happened")
	cmd.Flags().IntVar(&count, "count", 0, "Quantity involved")
	cmd.Flags().StringVar(&createdBy, "created-by", "", "Author (defaults to --username)")
	return cmd
}
