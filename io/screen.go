package io

import (
	"bytes"
	"io"
)

const (
	SCREEN_CLEAR   = "\033[H\033[2J" // Home the cursor and clear the terminal.
	SCREEN_COLUMNS = 80              // Default columns per row.
	SCREEN_ROWS    = 30              // Default rows.
)

// Screen renders video memory as rows of text onto an io.Writer.
type Screen struct {
	Output  io.Writer
	Columns int // Columns per row, SCREEN_COLUMNS if zero.
	Rows    int // Rows rendered, SCREEN_ROWS if zero. Later words are not shown.
	NoClear bool

	frame bytes.Buffer
}

var _ Display = (*Screen)(nil)

// Glyph returns the printable character for a video word.
func Glyph(value int16) byte {
	ch := byte(value)
	if ch < ' ' || ch > '~' {
		return ' '
	}
	return ch
}

// Refresh writes the frame, one row per line.
func (sc *Screen) Refresh(video []int16) (err error) {
	columns := sc.Columns
	if columns <= 0 {
		columns = SCREEN_COLUMNS
	}
	rows := sc.Rows
	if rows <= 0 {
		rows = SCREEN_ROWS
	}
	if len(video) > rows*columns {
		video = video[:rows*columns]
	}

	sc.frame.Reset()
	if !sc.NoClear {
		sc.frame.WriteString(SCREEN_CLEAR)
	}

	for n, value := range video {
		sc.frame.WriteByte(Glyph(value))
		if (n+1)%columns == 0 {
			sc.frame.WriteString("\r\n")
		}
	}

	_, err = sc.Output.Write(sc.frame.Bytes())
	return
}
