// Package inspect renders probed media metadata for human consumption.
package inspect

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"clipsmith/internal/model"
	"clipsmith/internal/util/timecode"
)

// Render formats a descriptor as a summary line followed by one stream table.
func Render(desc model.MediaDescriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", desc.Path)
	fmt.Fprintf(&b, "container: %s  duration: %s\n", desc.Container, timecode.Format(desc.DurationSec))
	b.WriteString(StreamTable(desc))
	b.WriteByte('\n')
	return b.String()
}

// StreamTable renders one row per stream with kind-appropriate detail.
func StreamTable(desc model.MediaDescriptor) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Type", "Codec", "Detail", "Language", "Title"})

	for _, s := range desc.Streams {
		tw.AppendRow(table.Row{s.Index, string(s.Kind), s.Codec, streamDetail(s), s.Language, s.Title})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 6, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func streamDetail(s model.StreamDescriptor) string {
	switch s.Kind {
	case model.StreamVideo:
		if s.FrameRate > 0 {
			return fmt.Sprintf("%dx%d @ %.3g fps", s.Width, s.Height, s.FrameRate)
		}
		return fmt.Sprintf("%dx%d", s.Width, s.Height)
	case model.StreamAudio:
		return fmt.Sprintf("%d Hz, %d ch", s.SampleRateHz, s.Channels)
	default:
		return ""
	}
}
