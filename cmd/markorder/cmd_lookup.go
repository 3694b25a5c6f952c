package main

import (
	"fmt"

	"markorder/internal/console"
	"markorder/internal/nomenclature"
	"markorder/internal/order"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	lookupType   string
	lookupSize   string
	lookupUnits  string
	lookupColor  string
	lookupCollar string
)

// lookupCmd resolves a product descriptor without placing an order
var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Resolve product attributes to a product code",
	Long: `Looks the descriptor up in the nomenclature workbook the same way the
interactive order entry does, and prints the product code it resolves to.

Example:
  markorder lookup --type "латекс диаг" --size M --units 100 --color синий`,
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}

	d := order.Descriptor{
		SimplifiedName: lookupType,
		Size:           lookupSize,
		UnitsPerPack:   lookupUnits,
		Color:          lookupColor,
		Collar:         lookupCollar,
	}
	m, ok := table.Resolve(nomenclature.Query{
		SimplifiedName: d.SimplifiedName,
		Size:           d.Size,
		UnitsPerPack:   d.UnitsPerPack,
		Color:          d.Color,
		Collar:         d.Collar,
	})
	if !ok {
		logger.Info("lookup found nothing", zap.String("descriptor", d.String()))
		return fmt.Errorf("no product code found for (%s)", d)
	}

	logger.Debug("lookup resolved", zap.String("code", m.Code), zap.Stringer("pass", m.Pass))
	tbl := console.NewSimpleTable("", []string{"Field", "Value"})
	tbl.AddRow("Descriptor", d.String())
	tbl.AddRow("Product code", m.Code)
	tbl.AddRow("Name", m.DisplayName)
	tbl.AddRow("Matched", m.Pass.String())
	fmt.Fprint(cmd.OutOrStdout(), tbl.View(console.StylesFor(cmd.OutOrStdout())))
	return nil
}
