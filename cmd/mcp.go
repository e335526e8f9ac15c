package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/curaious/companion/internal/config"
	"github.com/curaious/companion/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the companion tools over MCP stdio",
	Run: func(cmd *cobra.Command, args []string) {
		// stdout carries the protocol
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

		conf := config.ReadConfig()

		client, err := newClient(conf)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to create client", err)
			os.Exit(1)
		}

		if err := mcpserver.NewServer(client, Version).ServeStdio(); err != nil {
			fmt.Fprintln(os.Stderr, "MCP server stopped", err)
			os.Exit(1)
		}
	},
}

// Register the "mcp" command
func init() {
	rootCmd.AddCommand(mcpCmd)
}
