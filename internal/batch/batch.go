// Package batch maps a document's character length to the chunk size used by
// the translation pipeline. Small documents get small chunks for finer
// progress granularity; large documents get bigger chunks to amortize the
// per-call overhead of the generation backend.
package batch

// FallbackChars is the assumed document length when the text could not be
// read at sizing time.
const FallbackChars = 20000

// Size returns the chunk size in characters for a document of totalChars.
func Size(totalChars int) int {
	switch {
	case totalChars < 5000:
		return 1000
	case totalChars < 50000:
		return 2000
	case totalChars < 200000:
		return 3000
	default:
		return 4000
	}
}

// TotalChunks returns ceil(totalChars / chunkSize). Zero when the document
// is empty.
func TotalChunks(totalChars, chunkSize int) int {
	if totalChars <= 0 || chunkSize <= 0 {
		return 0
	}
	return (totalChars + chunkSize - 1) / chunkSize
}
