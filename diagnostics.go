package bootdep

import (
	"fmt"
	"sort"
	"strings"
)

// Status is a diagnostic tool that returns a string describing the state of the container. The
// result is each discovered component, if it has been constructed and the signature of the
// constructor that builds it, followed by the bootstrap phase.
//
// Components that were not reached because the bootstrap failed first are reported as not
// constructed.
func (c *Container) Status() string {
	lines := make([]string, 0, len(c.components))
	for _, d := range c.components {
		_, constructed := c.store.Get(d.Type)
		line := fmt.Sprintf("%v - constructed: %t - constructor: %s", d.Type, constructed, constructorSignature(d.Constructor))
		if d.Type == c.entryType {
			line += " - entry point"
		}
		lines = append(lines, line)
	}

	sort.Strings(lines)

	result := strings.Builder{}
	for _, line := range lines {
		result.WriteString(line)
		result.WriteString("\n")
	}
	result.WriteString("----\nphase: ")
	result.WriteString(c.phase.String())
	if c.err != nil {
		result.WriteString("\nerror: ")
		result.WriteString(c.err.Error())
	}

	return result.String()
}
