package ssr_test

import (
	"bytes"
	"github.com/ceotarot/ceotarot/internal/ssr"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestReplaceCustomElements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "custom element",
			input: `<gold-button type="submit" class="w-full">Subscribe</gold-button>`,
			want:  `<button type="submit" class="w-full btn btn-gold">Subscribe</button>`,
		},
		{
			name:  "as attribute keeps the tag",
			input: `<a href="/" as="ghost-button">Back</a>`,
			want:  `<a href="/" class="btn btn-ghost">Back</a>`,
		},
		{
			name:  "panel",
			input: `<glass-panel id="result"><p>hi</p></glass-panel>`,
			want:  `<section id="result" class="glass-panel"><p>hi</p></section>`,
		},
		{
			name:  "plain html is untouched",
			input: `<p class="line">"따옴표" &amp; 텍스트</p>`,
			want:  `<p class="line">&#34;따옴표&#34; &amp; 텍스트</p>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, ssr.ReplaceCustomElements(&buf, strings.NewReader(tt.input)))
			require.Equal(t, tt.want, buf.String())
		})
	}
}

func TestReplaceCustomElementsDocument(t *testing.T) {
	input := `<!DOCTYPE html><html lang="ko"><head><title>t</title></head><body><gold-button>Go</gold-button></body></html>`
	var buf bytes.Buffer
	require.NoError(t, ssr.ReplaceCustomElementsDocument(&buf, strings.NewReader(input)))
	require.Equal(t,
		`<!DOCTYPE html><html lang="ko"><head><title>t</title></head><body><button class="btn btn-gold">Go</button></body></html>`,
		buf.String())
}

func TestIsDocument(t *testing.T) {
	require.True(t, ssr.IsDocument([]byte("\n<!DOCTYPE html><html></html>")))
	require.True(t, ssr.IsDocument([]byte("<!doctype html>")))
	require.False(t, ssr.IsDocument([]byte("<div></div>")))
	require.False(t, ssr.IsDocument(nil))
}
