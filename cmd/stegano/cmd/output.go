package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"github.com/ssargent/stegano/pkg/stego"
)

// Styles for human output. Colors are from the 256-color palette and
// degrade with the terminal profile.
var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	secretStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	hexEvenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	hexOddStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func init() {
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}

// renderEncode prints the embed report.
func renderEncode(w io.Writer, res stego.Result) {
	fmt.Fprintln(w, headingStyle.Render("Image encoded and written successfully!"))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Output:"), res.Output)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Size:"), humanize.Bytes(uint64(res.FileSize)))
	fmt.Fprintf(w, "%s %d bytes at offset %d\n", labelStyle.Render("Record:"), res.RecordSize, res.Offset)
	fmt.Fprintf(w, "%s 0x%08x\n", labelStyle.Render("Checksum:"), res.Checksum)
}

// renderDecode prints the recovered payload. With quiet set only the
// secret itself is written, bare, for piping.
func renderDecode(w io.Writer, res stego.Result, quiet bool) {
	secret := string(res.Secret)
	if quiet {
		fmt.Fprintln(w, secret)
		return
	}

	fmt.Fprintln(w, headingStyle.Render("Your decoded secret is:"))
	fmt.Fprintln(w, secretStyle.Render(secret))
	fmt.Fprintf(w, "%s %s (%s)\n", labelStyle.Render("Restored:"), res.Output, humanize.Bytes(uint64(res.FileSize)))
	fmt.Fprintf(w, "%s %d bytes at offset %d\n", labelStyle.Render("Record:"), res.RecordSize, res.Offset)
}

// renderInspect prints one file's container report. Table cells stay
// unstyled so tabwriter's width accounting holds up.
func renderInspect(w io.Writer, res stego.Result, hexdump bool) {
	fmt.Fprintln(w, headingStyle.Render(res.Summary()))
	if res.Error != nil {
		fmt.Fprintln(w, errorStyle.Render(res.Error.Error()))
	}

	if len(res.Chunks) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "IDX\tOFFSET\tTAG\tLENGTH\tCRC\tDATA")
		for _, c := range res.Chunks {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t0x%08x\t%s\n",
				c.Index, c.Offset, c.Label, c.Length, c.CRC, preview(c.Head))
		}
		tw.Flush()
	}

	if len(res.Segments) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "OFFSET\tMARKER\tLENGTH\tDETAIL")
		for _, s := range res.Segments {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", s.Offset, s.Name, s.Length, s.Detail)
		}
		tw.Flush()
	}

	if hexdump {
		for _, c := range res.Chunks {
			if len(c.Head) == 0 {
				continue
			}
			fmt.Fprintf(w, "\n%s\n", labelStyle.Render(fmt.Sprintf("%s @ %d", c.Label, c.Offset)))
			writeHexdump(w, c.Head, c.Offset+8)
		}
	}

	fmt.Fprintln(w)
}

// preview renders chunk head bytes as text, dotting what a terminal
// cannot show.
func preview(b []byte) string {
	if len(b) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, c := range b {
		if c >= 0x20 && c < 0x7f {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('.')
		}
	}

	return sb.String()
}

// hexRowWidth is the number of bytes shown per hexdump row.
const hexRowWidth = 20

// writeHexdump prints data in offset/hex/ascii rows. base is the file
// offset of data[0], so the printed offsets line up with the container.
func writeHexdump(w io.Writer, data []byte, base int64) {
	for start := 0; start < len(data); start += hexRowWidth {
		end := min(start+hexRowWidth, len(data))
		row := data[start:end]

		var hexCol strings.Builder
		for i, b := range row {
			if i > 0 {
				hexCol.WriteByte(' ')
			}
			fmt.Fprintf(&hexCol, "%02x", b)
		}
		pad := strings.Repeat(" ", (hexRowWidth-len(row))*3)

		var ascii strings.Builder
		for _, b := range row {
			if b >= 0x20 && b < 0x7f {
				ascii.WriteByte(b)
			} else {
				ascii.WriteByte('.')
			}
		}

		rowStyle := hexEvenStyle
		if (start/hexRowWidth)%2 == 1 {
			rowStyle = hexOddStyle
		}

		fmt.Fprintf(w, "%s  %s%s  %s\n",
			faintStyle.Render(fmt.Sprintf("%08x", base+int64(start))),
			rowStyle.Render(hexCol.String()), pad,
			faintStyle.Render(ascii.String()))
	}
}
