//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func BenchmarkToHTML(b *testing.B) {
	ctx := context.Background()
	plain := NewGoldmarkConverter()
	highlighted := NewGoldmarkConverter(WithHighlighting(""))

	for _, notes := range []int{1, 25, 250} {
		doc := noteDocument(notes)
		b.Run(fmt.Sprintf("plain/notes_%d", notes), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := plain.ToHTML(ctx, doc); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.Run(fmt.Sprintf("highlight/notes_%d", notes), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := highlighted.ToHTML(ctx, doc); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkTextNodes(b *testing.B) {
	htmlContent, err := NewGoldmarkConverter().ToHTML(context.Background(), noteDocument(100))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fragments, err := TextNodes(htmlContent)
		if err != nil {
			b.Fatal(err)
		}
		_ = FilterNewline.Apply(fragments)
	}
}

// BenchmarkExtractParallel shares one converter across goroutines the way
// extraction workers do.
func BenchmarkExtractParallel(b *testing.B) {
	converter := NewGoldmarkConverter()
	pre := &SourcePreprocessor{}
	ctx := context.Background()
	doc := strings.ReplaceAll(noteDocument(20), "\n", "\r\n")

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			htmlContent, err := converter.ToHTML(ctx, pre.PreprocessMarkdown(ctx, doc))
			if err != nil {
				b.Fatal(err)
			}
			fragments, err := TextNodes(htmlContent)
			if err != nil {
				b.Fatal(err)
			}
			_ = FilterBlank.Apply(fragments)
		}
	})
}

// noteDocument builds a markdown page of n short notes, each with a list,
// and a fenced snippet or table on some of them.
func noteDocument(n int) string {
	var sb strings.Builder
	sb.WriteString("# Reading notes\n\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "## Note %d\n\n", i)
		sb.WriteString("She said the *plot* was thin, but they kept watching. ")
		sb.WriteString("See [the review](https://example.com/r) and `grep -c`.\n\n")
		sb.WriteString("- pacing\n- casting\n- score\n\n")
		switch i % 4 {
		case 0:
			sb.WriteString("```python\nprint(len(reviews))\n```\n\n")
		case 2:
			sb.WriteString("| label | count |\n|---|---|\n| pos | 12 |\n| neg | 9 |\n\n")
		}
	}
	return sb.String()
}
