package cache

// ResponseCache defines the port for raw sensor response caching.
// Keys are source URLs exactly as configured (query string included);
// values are the last successfully fetched response bodies.
//
// Entries are only ever overwritten, never evicted: the universe of
// sensor URLs is small and fixed for the life of the process.
type ResponseCache interface {
	// Get retrieves the cached response for url.
	// Returns the text and true if found, or empty string and false if not found.
	Get(url string) (string, bool)

	// Put stores or overwrites the response for url.
	Put(url string, text string)
}
