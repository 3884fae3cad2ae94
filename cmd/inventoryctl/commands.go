package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/noah-isme/inventory-api/internal/dto"
	"github.com/noah-isme/inventory-api/internal/models"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inventory items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := opts.api.List(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), items)
			}
			if asCSV, _ := cmd.Flags().GetBool("csv"); asCSV {
				return printItemCSV(cmd.OutOrStdout(), items)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No items found.")
				return nil
			}
			printItemTable(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().Bool("csv", false, "output as CSV")
	return cmd
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single inventory item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q: must be a number", args[0])
			}
			item, err := opts.api.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), item)
			}
			printItem(cmd.OutOrStdout(), item)
			return nil
		},
	}
}

func newCreateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an inventory item",
		Long: `Create an inventory item. Leave --id unset to let the server
assign the next free id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetInt("id")
			quantity, _ := cmd.Flags().GetInt("quantity")
			rawPrice, _ := cmd.Flags().GetString("price")

			price, err := models.NewMoney(rawPrice)
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", rawPrice, err)
			}

			item, err := opts.api.Create(cmd.Context(), dto.CreateInventoryItemRequest{
				ID:       id,
				Name:     args[0],
				Quantity: quantity,
				Price:    price,
			})
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), item)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created item %d\n", item.ID)
			printItem(cmd.OutOrStdout(), item)
			return nil
		},
	}
	cmd.Flags().Int("id", 0, "explicit item id")
	cmd.Flags().IntP("quantity", "q", 0, "units in stock")
	cmd.Flags().StringP("price", "p", "0", "unit price")
	return cmd
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show server build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := opts.api.Version(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), v)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Version:      %s\n", v.Version)
			fmt.Fprintf(out, "Build Date:   %s\n", v.BuildDate)
			fmt.Fprintf(out, "Build Number: %s\n", v.BuildNumber)
			fmt.Fprintf(out, "Environment:  %s\n", v.Environment)
			return nil
		},
	}
}

func newConfigStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config-status",
		Short: "Show whether the remote secret store is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := opts.api.ConfigStatus(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), status)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Key Vault:    %s\n", configuredLabel(status.KeyVaultConfigured))
			fmt.Fprintf(out, "Environment:  %s\n", status.Environment)
			return nil
		},
	}
}

func configuredLabel(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
