package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/noah-isme/inventory-api/internal/models"
	"github.com/noah-isme/inventory-api/pkg/export"
)

const timeLayout = "2006-01-02 15:04:05"

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printItem(w io.Writer, item *models.InventoryItem) {
	fmt.Fprintf(w, "ID:           %d\n", item.ID)
	fmt.Fprintf(w, "Name:         %s\n", item.Name)
	fmt.Fprintf(w, "Quantity:     %d\n", item.Quantity)
	fmt.Fprintf(w, "Price:        %s\n", item.Price.String())
	fmt.Fprintf(w, "Last Updated: %s\n", item.LastUpdated.UTC().Format(timeLayout))
}

func printItemTable(w io.Writer, items []models.InventoryItem) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQUANTITY\tPRICE\tLAST UPDATED")
	for _, item := range items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			item.ID, item.Name, item.Quantity, item.Price.String(), item.LastUpdated.UTC().Format(timeLayout))
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d item(s)\n", len(items))
}

func printItemCSV(w io.Writer, items []models.InventoryItem) error {
	table := export.Table{Headers: []string{"id", "name", "quantity", "price", "lastUpdated"}}
	for _, item := range items {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(item.ID),
			item.Name,
			strconv.Itoa(item.Quantity),
			item.Price.String(),
			item.LastUpdated.UTC().Format(time.RFC3339),
		})
	}
	return export.WriteCSV(w, table)
}
