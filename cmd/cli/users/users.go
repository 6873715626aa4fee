package users

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

// ==========================
// CLI Command Init
// ==========================
func Register(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage employee accounts",
	}
	usersCmd.AddCommand(listUsersCmd(), signupCmd(), deleteUserCmd(), passwdCmd())
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// List Users
// ==========================
func listUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := api.Authed()
			if err != nil {
				return err
			}
			var users []models.User
			raw, err := client.Do(cmd.Context(), http.MethodGet, "/api/employees", nil, &users)
			if err != nil {
				return err
			}
			if root.JSON(cmd) {
				return output.PrintJSON(cmd.OutOrStdout(), raw)
			}

			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				rows = append(rows, []interface{}{u.ID, u.Username, u.Email, u.Role})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Username", "Email", "Role"}, rows)
			return nil
		},
	}
}

// ==========================
// Signup
// ==========================
func signupCmd() *cobra.Command {
	var username, email, password, role string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !models.ValidRole(role) {
				return fmt.Errorf("--role must be %q or %q", models.RoleAdmin, models.RoleUser)
			}
			var out struct {
				User models.PublicUser `json:"user"`
			}
			_, err := api.New().Do(cmd.Context(), http.MethodPost, "/api/auth/signup", map[string]string{
				"username": username,
				"email":    email,
				"password": password,
				"role":     role,
			}, &out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d, role %s).\n", out.User.Username, out.User.ID, out.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&role, "role", models.RoleUser, "admin or user")
	return cmd
}

// ==========================
// Delete User
// ==========================
func deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			client, err := api.Authed()
			if err != nil {
				return err
			}
			if _, err := client.Do(cmd.Context(), http.MethodDelete, "/api/auth/users/"+strconv.Itoa(id), nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d deleted.\n", id)
			return nil
		},
	}
}

// ==========================
// Change Password
// ==========================
func passwdCmd() *cobra.Command {
	var email, newPassword string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Set a new password for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := api.New().Do(cmd.Context(), http.MethodPost, "/api/auth/changepassword",
				map[string]string{"email": email, "newPassword": newPassword}, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&newPassword, "new-password", "", "New password")
	return cmd
}
