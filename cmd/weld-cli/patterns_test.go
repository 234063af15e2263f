package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weld/internal/catalog"
	"weld/internal/hir"
)

func TestWritePatternTable(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	entries := []catalog.Entry{
		{Pattern: hir.PatternLen, Name: "Len", FrontCallee: "len", NativeCallee: "list_length", TargetCallee: "Vec::len", Result: catalog.Usize()},
		{Pattern: hir.PatternCustom, Name: "größe", FrontCallee: "größe", NativeCallee: "list_size", TargetCallee: "Vec::len", Result: catalog.Custom("Größe")},
	}

	var buf bytes.Buffer
	writePatternTable(&buf, entries)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "NAME   FRONT  NATIVE       TARGET    RESULT", lines[0])
	assert.Equal(t, "Len    len    list_length  Vec::len  usize", lines[1])
	assert.Equal(t, "größe  größe  list_size    Vec::len  custom(Größe)", lines[2])
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Nanosecond, "500ns"},
		{1500 * time.Nanosecond, "1.5μs"},
		{2500 * time.Microsecond, "2.5ms"},
		{1500 * time.Millisecond, "1.50s"},
		{90 * time.Second, "1.50min"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.in))
	}
}
