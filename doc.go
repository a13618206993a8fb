// Package textprobe extracts text from markdown collections and tags dataset
// records with demographic word categories.
//
// # Text Extraction
//
// An Extractor renders every file of a directory as markdown, parses the
// resulting HTML, and collects its text nodes in document order:
//
//	ext := textprobe.NewExtractor()
//	result, err := ext.ExtractDir(ctx, "./md")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Count())
//
// Fragments whose text is exactly a newline are dropped; they are the
// separators the renderer places between block elements. Use
// WithFilter(FilterBlank) to drop every whitespace-only fragment instead.
//
// Every entry of the directory must be a regular UTF-8 file. Subdirectories
// fail with ErrNotRegularFile unless WithRecursive is set, and
// WithMarkdownOnly skips files without a markdown extension.
//
// # Dataset Tagging
//
// A Tagger loads a dataset split and appends one boolean column per
// category of a taxonomy:
//
//	client := dataset.NewClient()
//	tagger := textprobe.NewTagger(dataset.NewLoader(client), disaggregate.NewRegistry())
//	table, err := tagger.Run(ctx, textprobe.TagRequest{
//	    Dataset:  "imdb",
//	    Split:    "train",
//	    Column:   "text",
//	    Taxonomy: "pronouns",
//	})
//
// The built-in "pronouns" taxonomy adds the columns "she/her", "he/him"
// and "they/them".
//
// # Parallel Processing
//
// ExtractDir renders files on a bounded set of workers. The collected
// fragments keep the sorted file order whatever the worker count; see
// ResolveWorkers for the default sizing.
package textprobe
