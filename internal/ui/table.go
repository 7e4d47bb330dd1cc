package ui

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Artifact is a generated file to be copied to the console's SD card.
type Artifact struct {
	Name string
	Path string
	Size int64
}

// RenderArtifacts writes a table of artifacts to w.
func RenderArtifacts(w io.Writer, artifacts []Artifact) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("FILE"),
		text.FgHiCyan.Sprint("PATH"),
		text.FgHiCyan.Sprint("SIZE"),
	})
	for _, a := range artifacts {
		t.AppendRow(table.Row{a.Name, a.Path, formatSize(a.Size)})
	}
	t.Render()
}

func formatSize(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}
	return fmt.Sprintf("%.1f KiB", float64(size)/1024)
}
