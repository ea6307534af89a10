// Package resources bundles the default stop-word lists.
package resources

import (
	"embed"
	"io/fs"
)

//go:embed stopwords/*.txt
var stopWords embed.FS

// StopWords returns the bundled language stop-word lists as <lang>.txt files.
func StopWords() fs.FS {
	sub, err := fs.Sub(stopWords, "stopwords")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}
	return sub
}
