package main

import (
	"fmt"
	"strings"

	"markorder/internal/console"

	"github.com/spf13/cobra"
)

// optionsCmd lists the values offered by the attribute menus
var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List product types, colors, collars, sizes and pack sizes",
	RunE:  showOptions,
}

func showOptions(cmd *cobra.Command, args []string) error {
	cat := cfg.GetCatalog()

	tbl := console.NewSimpleTable("Menu options", []string{"List", "Values"})
	tbl.AddRow("Product types", strings.Join(cat.ProductTypes, ", "))
	tbl.AddRow("Need a color", strings.Join(cat.ColorRequired, ", "))
	tbl.AddRow("Need a collar", strings.Join(cat.CollarRequired, ", "))
	tbl.AddRow("Colors", strings.Join(cat.Colors, ", "))
	tbl.AddRow("Collars", strings.Join(cat.Collars, ", "))
	tbl.AddRow("Sizes", strings.Join(cat.Sizes, ", "))
	tbl.AddRow("Units per pack", strings.Join(cat.UnitsPerPack, ", "))

	out := cmd.OutOrStdout()
	fmt.Fprint(out, tbl.View(console.StylesFor(out)))
	return nil
}
