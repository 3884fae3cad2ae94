package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/inventory-api/internal/client"
)

func defaultServer() string {
	if s := os.Getenv("INVENTORY_SERVER"); s != "" {
		return s
	}
	return "localhost:8080"
}

type rootOptions struct {
	server     string
	jsonOutput bool
	api        *client.Client
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "inventoryctl",
		Short:         "CLI client for the inventory API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			api, err := client.New(opts.server)
			if err != nil {
				return fmt.Errorf("failed to configure client: %w", err)
			}
			opts.api = api
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.server, "server", defaultServer(), "inventory API address")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output as JSON")

	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newGetCmd(opts))
	cmd.AddCommand(newCreateCmd(opts))
	cmd.AddCommand(newVersionCmd(opts))
	cmd.AddCommand(newConfigStatusCmd(opts))
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
