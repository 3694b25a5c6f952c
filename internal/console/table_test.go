package console

import (
	"strings"
	"testing"

	"markorder/internal/batch"
	"markorder/internal/order"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleTable_Empty(t *testing.T) {
	tbl := NewSimpleTable("Pending", []string{"#", "Code"})
	assert.Equal(t, "", tbl.View(plainStyles()))
}

func TestSimpleTable_ColumnsLineUp(t *testing.T) {
	tbl := NewSimpleTable("", []string{"#", "Product", "Qty"})
	tbl.AddRow("1", "латекс диаг", "5")
	tbl.AddRow("12", "хир", "100")
	tbl.AddRow("3") // short rows are padded

	view := tbl.View(plainStyles())
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	require.Len(t, lines, 5, "header, divider and three rows")

	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		assert.Equal(t, want, lipgloss.Width(line), "line %d: %q", i, line)
	}
	assert.Contains(t, lines[2], "латекс диаг")
}

func TestRenderQueue(t *testing.T) {
	styles := plainStyles()
	var q batch.Queue
	assert.Contains(t, RenderQueue(&q, styles), "No pending items.")

	it, err := order.FromCode("Заявка 9", "04600000000012", 30)
	require.NoError(t, err)
	q.Add(it)

	view := RenderQueue(&q, styles)
	assert.Contains(t, view, "Pending items")
	assert.Contains(t, view, "04600000000012")
	assert.Contains(t, view, "Заявка 9")
	assert.Contains(t, view, order.ByCodeName)
	assert.Contains(t, view, it.ID[:8])
}

func TestRenderReport(t *testing.T) {
	styles := plainStyles()
	ok, err := order.FromCode("A", "111", 1)
	require.NoError(t, err)
	d := order.Descriptor{SimplifiedName: "латекс диаг", Size: "M", UnitsPerPack: "100", Color: "синий"}
	bad, err := order.FromLookup("B", d, "222", "Перчатки латексные синие M", 1)
	require.NoError(t, err)

	r := &batch.Report{Outcomes: []batch.Outcome{
		{Position: 1, Item: ok, Success: true, Message: "OK"},
		{Position: 2, Item: bad, Message: "step product search: unknown", UnknownProduct: true},
	}}
	view := RenderReport(r, []string{"хир | S | 50 per pack"}, styles)

	assert.Contains(t, view, "Attempted: 2, succeeded: 1, failed: 1.")
	assert.Contains(t, view, "Failed items")
	assert.Contains(t, view, "step product search: unknown")
	assert.Contains(t, view, bad.ID, "failures carry the full item id")
	assert.Contains(t, view, d.String(), "failures carry the full descriptor")
	assert.NotContains(t, view, ok.ID, "successful items are not listed as failures")
	assert.Contains(t, view, "Not found in the nomenclature:")
	assert.Contains(t, view, " - хир | S | 50 per pack")
	assert.Contains(t, view, "Product codes the portal did not recognise:")
	assert.Contains(t, view, " - 222")
	assert.NotContains(t, view, "All items were submitted.")

	clean := RenderReport(&batch.Report{Outcomes: []batch.Outcome{{Position: 1, Item: ok, Success: true}}}, nil, styles)
	assert.Contains(t, clean, "All items were submitted.")
	assert.NotContains(t, clean, "Failed items")
}
