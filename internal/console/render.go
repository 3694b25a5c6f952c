package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"markorder/internal/batch"
	"markorder/internal/order"
)

// RenderQueue renders the pending items in position order.
func RenderQueue(q *batch.Queue, styles Styles) string {
	t := NewSimpleTable("Pending items", []string{"#", "Product", "Size", "Pack", "Code", "Qty", "Order", "ID"})
	for pos, it := range q.List() {
		t.AddRow(
			strconv.Itoa(pos),
			productName(it),
			it.Descriptor.Size,
			it.Descriptor.UnitsPerPack,
			it.ProductCode,
			strconv.Itoa(it.Quantity),
			it.OrderLabel,
			shortID(it.ID),
		)
	}
	if len(t.Rows) == 0 {
		return styles.Muted.Render("No pending items.") + "\n"
	}
	return "\n" + t.View(styles)
}

// RenderReport renders the outcome of a batch. unresolved lists descriptors
// the nomenclature lookup failed on during the session.
func RenderReport(r *batch.Report, unresolved []string, styles Styles) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(styles.Title.Render("=== Execution finished ==="))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Attempted: %d, succeeded: %d, failed: %d.\n", r.Attempted(), r.Succeeded(), r.Failed())

	if r.AuditErr != nil {
		sb.WriteString(styles.Warning.Render(fmt.Sprintf("Snapshot was not recorded: %v", r.AuditErr)))
		sb.WriteString("\n")
	}

	if failures := r.Failures(); len(failures) > 0 {
		t := NewSimpleTable("Failed items", []string{"#", "ID", "Product", "Code", "Order", "Error"})
		for _, o := range failures {
			t.AddRow(
				strconv.Itoa(o.Position),
				o.Item.ID,
				o.Item.Descriptor.String(),
				o.Item.ProductCode,
				o.Item.OrderLabel,
				o.Message,
			)
		}
		sb.WriteString("\n")
		sb.WriteString(t.View(styles))
	}

	if len(unresolved) > 0 {
		sb.WriteString("\n")
		sb.WriteString(styles.Error.Render("Not found in the nomenclature:"))
		sb.WriteString("\n")
		for _, d := range unresolved {
			fmt.Fprintf(&sb, " - %s\n", d)
		}
	}

	if codes := r.UnknownCodes(); len(codes) > 0 {
		sb.WriteString("\n")
		sb.WriteString(styles.Error.Render("Product codes the portal did not recognise:"))
		sb.WriteString("\n")
		for _, c := range codes {
			fmt.Fprintf(&sb, " - %s\n", c)
		}
	}

	if r.Failed() == 0 && r.Attempted() > 0 {
		sb.WriteString("\n")
		sb.WriteString(styles.Success.Render("All items were submitted."))
		sb.WriteString("\n")
	}
	return sb.String()
}

// progressPrinter reports each submission as the batch runs.
type progressPrinter struct {
	out    io.Writer
	styles Styles
}

func (p *progressPrinter) OnItemStart(position, total int, it order.Item) {
	fmt.Fprintf(p.out, "[%d/%d] Submitting %s, code %s, order '%s'\n",
		position, total, productName(it), it.ProductCode, it.OrderLabel)
}

func (p *progressPrinter) OnItemDone(o batch.Outcome) {
	if o.Success {
		fmt.Fprintf(p.out, "%s %s: %s\n", p.styles.Success.Render("[OK]"), productName(o.Item), o.Message)
		return
	}
	fmt.Fprintf(p.out, "%s %s: %s\n", p.styles.Error.Render("[ERR]"), productName(o.Item), o.Message)
}

func productName(it order.Item) string {
	if it.DisplayName != "" {
		return it.DisplayName
	}
	return it.Descriptor.SimplifiedName
}

// shortIDLen is how much of an id the pending listing shows.
const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}
