package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ChunkText(t *testing.T) {
	chunker := NewTextChunker()

	var cases = []struct {
		input   string
		size    int
		overlap int
		output  []string
	}{
		{input: "", size: 10, overlap: 0, output: nil},
		{input: "short text", size: 100, overlap: 0, output: []string{"short text"}},
		{input: "aaaaaa\n\nbbbbbb", size: 10, overlap: 0, output: []string{"aaaaaa", "bbbbbb"}},
		{input: "aaaaaaaaaa\n\nbbbbbbbbbb", size: 20, overlap: 4, output: []string{"aaaaaaaaaa", "aaaa bbbbbbbbbb"}},
		{input: "One. Two. Three.", size: 6, overlap: 0, output: []string{"One", "Two", "Three"}},
	}

	for i, c := range cases {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			assert.Equal(t, c.output, chunker.ChunkText(c.input, c.size, c.overlap))
		})
	}
}

func Test_ChunkText_DefaultsForBadArgs(t *testing.T) {
	chunker := NewTextChunker()

	// Zero size falls back to the default chunk size instead of looping.
	chunks := chunker.ChunkText(strings.Repeat("This is a sentence. ", 100), 0, -5)
	assert.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 1000)
	}
}

func Test_ChunkText_OverlapCarriesTail(t *testing.T) {
	chunker := NewTextChunker()

	paras := "first paragraph with enough text\n\nsecond paragraph with enough text"
	chunks := chunker.ChunkText(paras, 40, 10)

	assert.Len(t, chunks, 2)
	tail := chunks[0][len(chunks[0])-10:]
	assert.True(t, strings.HasPrefix(chunks[1], tail))
}
