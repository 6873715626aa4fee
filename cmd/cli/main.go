package main

import (
	"fmt"
	"os"

	"github.com/crucial707/stockroom/cmd/cli/auth"
	"github.com/crucial707/stockroom/cmd/cli/inventory"
	"github.com/crucial707/stockroom/cmd/cli/logs"
	"github.com/crucial707/stockroom/cmd/cli/root"
	"github.com/crucial707/stockroom/cmd/cli/users"
)

func main() {
	rootCmd := root.New()
	auth.Register(rootCmd)
	users.Register(rootCmd)
	logs.Register(rootCmd)
	inventory.Register(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
