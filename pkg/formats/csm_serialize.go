package formats

import (
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/octacube/pkg/cube"
)

// SerializeCSM writes c as a single-epoch CSM model. Zero leaves are
// omitted. A node whose children are all leaves is written as one array
// statement.
func SerializeCSM(c *cube.Cube[uint8]) string {
	var sb strings.Builder
	if v, ok := c.IsSolid(); ok {
		fmt.Fprintf(&sb, "> %d\n", v)
		return sb.String()
	}
	writeCSMNode(&sb, c, nil)
	return sb.String()
}

// WriteCSMFile serializes c to path.
func WriteCSMFile(path string, c *cube.Cube[uint8]) error {
	if err := os.WriteFile(path, []byte(SerializeCSM(c)), 0o644); err != nil {
		return fmt.Errorf("writing CSM file: %w", err)
	}
	return nil
}

func writeCSMNode(sb *strings.Builder, c *cube.Cube[uint8], path []byte) {
	if v, ok := c.IsSolid(); ok {
		if v != 0 {
			fmt.Fprintf(sb, ">%s %d\n", path, v)
		}
		return
	}

	children := c.Children()
	allLeaves := true
	for _, ch := range children {
		if !ch.IsLeaf() {
			allLeaves = false
			break
		}
	}

	if allLeaves {
		sb.WriteByte('>')
		if len(path) > 0 {
			sb.Write(path)
			sb.WriteByte(' ')
		}
		sb.WriteByte('[')
		for i, ch := range children {
			if i > 0 {
				sb.WriteByte(' ')
			}
			v, _ := ch.IsSolid()
			fmt.Fprintf(sb, "%d", v)
		}
		sb.WriteString("]\n")
		return
	}

	for i, ch := range children {
		writeCSMNode(sb, ch, append(path, cube.OctantChar(i)))
	}
}
