package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/petface/internal/catalog"
	"github.com/kozaktomas/petface/internal/features"
)

var breedsCmd = &cobra.Command{
	Use:   "breeds",
	Short: "List the breeds of a catalog with their facial profiles",
	Args:  cobra.NoArgs,
	RunE:  runBreeds,
}

func init() {
	rootCmd.AddCommand(breedsCmd)

	breedsCmd.Flags().String("pet-type", string(catalog.DefaultSpecies), "Catalog to list (dog or cat)")
	breedsCmd.Flags().Bool("json", false, "Print the catalog as JSON")
}

func runBreeds(cmd *cobra.Command, args []string) error {
	species, err := catalog.ParseSpecies(mustGetString(cmd, "pet-type"))
	if err != nil {
		return err
	}
	c, err := catalog.Load(species)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(c.Breeds())
	}
	return printCatalog(out, c)
}

func printCatalog(w io.Writer, c *catalog.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{"BREED"}
	for _, f := range features.Keys() {
		header = append(header, strings.ToUpper(string(f)))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, b := range c.All() {
		row := []string{b.Name}
		for _, f := range features.Keys() {
			cat, ok := b.Features[f]
			if !ok {
				cat = "-"
			}
			row = append(row, string(cat))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d %s breeds\n", c.Len(), c.Species())
	return nil
}
