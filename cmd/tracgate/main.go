package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/tracgate/internal/interfaces/cli/ticket"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tracgate",
		Short: "Tracgate - a Trac XML-RPC client",
		Long:  `Tracgate talks to the XML-RPC ticket interface of a Trac instance: creating, updating and deleting tickets and managing their attachments.`,
	}

	rootCmd.AddCommand(
		ticket.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
