package pipeline

import (
	"fmt"
	"strings"

	"github.com/contentflow/contentflow/internal/stage"
)

// Mermaid renders a mermaid flowchart of the fixed pipeline topology. The
// diagram is for documentation and debugging only; it carries no runtime
// behavior.
func Mermaid() string {
	names := []string{stage.NameResearch, stage.NameWriter, stage.NameNewsletter}

	var sb strings.Builder
	sb.WriteString("graph TD;\n")
	sb.WriteString("\t__start__([__start__]) --> " + names[0] + ";\n")
	for i := 0; i < len(names)-1; i++ {
		fmt.Fprintf(&sb, "\t%s --> %s;\n", names[i], names[i+1])
	}
	sb.WriteString("\t" + names[len(names)-1] + " --> __end__([__end__]);\n")
	return sb.String()
}
