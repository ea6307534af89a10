package tokenize

// StopWords resolves per-language stop-word sets.
type StopWords interface {
	Load(lang string) bool
	Contains(lang, word string) bool
}
