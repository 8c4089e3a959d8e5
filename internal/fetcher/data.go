package fetcher

// FetchResult is the outcome of one Fetch call, whether it was answered by
// the network or by the response cache.
type FetchResult struct {
	text string
	meta ResponseMeta
}

// Text is the raw response body.
func (f *FetchResult) Text() string {
	return f.text
}

// Code is the HTTP status code, or 0 when the result came from the cache.
func (f *FetchResult) Code() int {
	return f.meta.statusCode
}

func (f *FetchResult) ContentType() string {
	return f.meta.contentType
}

func (f *FetchResult) ContentHash() string {
	return f.meta.contentHash
}

func (f *FetchResult) FromCache() bool {
	return f.meta.fromCache
}

type ResponseMeta struct {
	statusCode  int
	contentType string
	contentHash string
	fromCache   bool
}
