package inventory

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/crucial707/stockroom/cmd/cli/api"
	"github.com/crucial707/stockroom/cmd/cli/output"
	"github.com/crucial707/stockroom/cmd/cli/root"
	"github.com/crucial707/stockroom/internal/models"
)

// Register adds sections, items, lowstock and summary to the root command.
func Register(rootCmd *cobra.Command) {
	sectionsCmd := &cobra.Command{
		Use:   "sections",
		Short: "Manage inventory sections",
	}
	sectionsCmd.AddCommand(listSectionsCmd(), createSectionCmd(), deleteSectionCmd())

	itemsCmd := &cobra.Command{
		Use:   "items",
		Short: "Manage items within sections",
	}
	itemsCmd.AddCommand(listItemsCmd(), addItemCmd(), updateItemCmd(), adjustItemCmd(), deleteItemCmd())

	rootCmd.AddCommand(sectionsCmd, itemsCmd, lowStockCmd(), summaryCmd())
}

func parseID(kind, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}

func itemPath(sectionID, itemID int) string {
	return fmt.Sprintf("/api/items/section/%d/%d", sectionID, itemID)
}

func renderItems(cmd *cobra.Command, raw []byte, items []models.Item) error {
	if root.JSON(cmd) {
		return output.PrintJSON(cmd.OutOrStdout(), raw)
	}
	rows := make([][]interface{}, 0, len(items))
	for _, it := range items {
		rows = append(rows, []interface{}{it.ID, it.SectionID, it.Name, it.AvailableCount})
	}
	output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Section", "Name", "Available"}, rows)
	return nil
}

// ==========================
// Sections
// ==========================

func listSectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sections with their item counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := api.Authed()
			if err != nil {
				return err
			}
			var sections []models.Section
			raw, err := client.Do(cmd.Context(), http.MethodGet, "/api/sections", nil, &sections)
			if err != nil {
				return err
			}
			if root.JSON(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), raw)
			}
			rows := make([][]interface{}, 0, len(sections))
			for _, s := range sections {
				rows = append(rows, []interface{}{s.ID, s.Name, s.Description, s.ItemCount})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Description", "Items"}, rows)
			return nil
		},
	}
}

func createSectionCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a section (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := api.Authed()
			if err != nil {
				return err
			}
			var section models.Section
			_, err = client.Do(cmd.Context(), http.MethodPost, "/api/sections",
				map[string]string{"name": args[0], "description": description}, &section)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Section %q created (id %d).\n", section.Name, section.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Section description")
	return cmd
}

func deleteSectionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a section and its items (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("section", args[0])
			if err != nil {
				return err
			}
			client, err := api.Authed()
			if err != nil {
				return err
			}
			if _, err := client.Do(cmd.Context(), http.MethodDelete, "/api/sections/"+strconv.Itoa(id), nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Section %d deleted.\n", id)
			return nil
		},
	}
}

// ==========================
// Items
// ==========================

func listItemsCmd() *cobra.Command {
	var section int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items, optionally within one section",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := api.Authed()
			if err != nil {
				return err
			}
			path := "/api/items"
			if section > 0 {
				path = fmt.Sprintf("/api/items/section/%d", section)
			}
			var items []models.Item
			raw, err := client.Do(cmd.Context(), http.MethodGet, path, nil, &items)
			if err != nil {
				return err
			}
			return renderItems(cmd, raw, items)
		},
	}
	cmd.Flags().IntVar(&section, "section", 0, "Only items in this section")
	return cmd
}

func addItemCmd() *cobra.Command {
	var section, count int

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an item to a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if section <= 0 {
				return fmt.Errorf("--section is required")
			}
			client, err := api.Authed()
			if err != nil {
				return err
			}
			var item models.Item
			_, err = client.Do(cmd.Context(), http.MethodPost, fmt.Sprintf("/api/items/section/%d", section),
				map[string]any{"itemname": args[0], "availableCount": count}, &item)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item %q added (id %d, available %d).\n", item.Name, item.ID, item.AvailableCount)
			return nil
		},
	}
	cmd.Flags().IntVar(&section, "section", 0, "Section id")
	cmd.Flags().IntVar(&count, "count", 0, "Initial available count")
	return cmd
}

func updateItemCmd() *cobra.Command {
	var section, count int
	var name string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename an item or set its count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("item", args[0])
			if err != nil {
				return err
			}
			if section <= 0 {
				return fmt.Errorf("--section is required")
			}
			client, err := api.Authed()
			if err != nil {
				return err
			}
			var item models.Item
			_, err = client.Do(cmd.Context(), http.MethodPut, itemPath(section, id),
				map[string]any{"itemname": name, "availableCount": count}, &item)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item %d is now %q with %d available.\n", item.ID, item.Name, item.AvailableCount)
			return nil
		},
	}
	cmd.Flags().IntVar(&section, "section", 0, "Section id")
	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().IntVar(&count, "count", 0, "Available count")
	return cmd
}

func adjustItemCmd() *cobra.Command {
	var section int

	cmd := &cobra.Command{
		Use:   "adjust <id> <delta>",
		Short: "Add to or take from an item's available count",
		Long:  "Apply a signed delta to the available count. The count never drops below zero.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("item", args[0])
			if err != nil {
				return err
			}
			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid delta %q", args[1])
			}
			if section <= 0 {
				return fmt.Errorf("--section is required")
			}
			client, err := api.Authed()
			if err != nil {
				return err
			}
			var item models.Item
			_, err = client.Do(cmd.Context(), http.MethodPost, itemPath(section, id)+"/adjust",
				map[string]int{"delta": delta}, &item)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d available.\n", item.Name, item.AvailableCount)
			return nil
		},
	}
	cmd.Flags().IntVar(&section, "section", 0, "Section id")
	return cmd
}

func deleteItemCmd() *cobra.Command {
	var section int

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("item", args[0])
			if err != nil {
				return err
			}
			if section <= 0 {
				return fmt.Errorf("--section is required")
			}
			client, err := api.Authed()
			if err != nil {
				return err
			}
			if _, err := client.Do(cmd.Context(), http.MethodDelete, itemPath(section, id), nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item %d deleted.\n", id)
			return nil
		},
	}
	cmd.Flags().IntVar(&section, "section", 0, "Section id")
	return cmd
}

// ==========================
// Low stock and summary
// ==========================

func lowStockCmd() *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "lowstock",
		Short: "List items below the low-stock threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := api.Authed()
			if err != nil {
				return err
			}
			path := "/api/items/lowstock"
			if threshold > 0 {
				path += "?threshold=" + strconv.Itoa(threshold)
			}
			var items []models.Item
			raw, err := client.Do(cmd.Context(), http.MethodGet, path, nil, &items)
			if err != nil {
				return err
			}
			return renderItems(cmd, raw, items)
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", 0, "Override the server's threshold")
	return cmd
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show dashboard totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := api.Authed()
			if err != nil {
				return err
			}
			var sum models.Summary
			raw, err := client.Do(cmd.Context(), http.MethodGet, "/api/dashboard/summary", nil, &sum)
			if err != nil {
				return err
			}
			if root.JSON(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), raw)
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"Sections", "Items", "Employees", "Logs", "Low stock"},
				[][]interface{}{{sum.Sections, sum.Items, sum.Employees, sum.Logs, len(sum.LowStock)}})
			return nil
		},
	}
}
