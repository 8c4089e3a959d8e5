package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rohmanhakim/lobo/internal/cache"
	"github.com/rohmanhakim/lobo/internal/metadata"
	"github.com/rohmanhakim/lobo/pkg/failure"
	"github.com/rohmanhakim/lobo/pkg/hashutil"
	"github.com/rohmanhakim/lobo/pkg/urlutil"
)

/*
Responsibilities

- Answer from the response cache when caching is allowed and an entry exists
- Otherwise perform exactly one HTTP GET
- Classify failures
- Store successful responses when caching is allowed

Fetch Semantics

- A success is a 2xx response with a non-empty body
- Failures never touch the cache
- A fetch with caching disallowed never reads the cache
- No retries: one failed attempt is returned to the caller as is

The fetcher never parses content; it only returns text and metadata.
*/

type ResponseFetcher struct {
	metadataSink metadata.MetadataSink
	cache        cache.ResponseCache
	httpClient   *http.Client
	userAgent    string
	hashAlgo     hashutil.HashAlgo
}

func NewResponseFetcher(
	metadataSink metadata.MetadataSink,
	responseCache cache.ResponseCache,
) ResponseFetcher {
	return ResponseFetcher{
		metadataSink: metadataSink,
		cache:        responseCache,
		httpClient:   &http.Client{},
		hashAlgo:     hashutil.HashAlgoBLAKE3,
	}
}

// Init replaces the HTTP client and the User-Agent header value.
// An empty userAgent sends Go's default.
func (f *ResponseFetcher) Init(httpClient *http.Client, userAgent string) {
	if httpClient != nil {
		f.httpClient = httpClient
	}
	f.userAgent = userAgent
}

// SetHashAlgo selects the digest recorded for every response.
func (f *ResponseFetcher) SetHashAlgo(algo hashutil.HashAlgo) {
	f.hashAlgo = algo
}

func (f *ResponseFetcher) Fetch(
	ctx context.Context,
	fetchUrl string,
	allowCache bool,
) (FetchResult, failure.ClassifiedError) {
	callerMethod := "ResponseFetcher.Fetch"
	startTime := time.Now()

	if allowCache {
		if text, ok := f.cache.Get(fetchUrl); ok {
			contentHash := f.contentHash(text)
			f.metadataSink.RecordFetch(fetchUrl, 0, time.Since(startTime), "", contentHash, true)
			return FetchResult{
				text: text,
				meta: ResponseMeta{
					contentHash: contentHash,
					fromCache:   true,
				},
			}, nil
		}
	}

	result, err := f.performFetch(ctx, fetchUrl)
	duration := time.Since(startTime)

	f.metadataSink.RecordFetch(
		fetchUrl,
		result.Code(),
		duration,
		result.ContentType(),
		result.ContentHash(),
		false,
	)

	if err != nil {
		f.recordFetchError(callerMethod, fetchUrl, err)
		return FetchResult{}, err
	}

	if allowCache {
		f.cache.Put(fetchUrl, result.text)
	}

	return result, nil
}

func (f *ResponseFetcher) recordFetchError(callerMethod string, fetchUrl string, err *FetchError) {
	f.metadataSink.RecordError(
		time.Now(),
		"fetcher",
		callerMethod,
		mapFetchErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, fetchUrl),
			metadata.NewAttr(metadata.AttrHost, urlutil.Host(fetchUrl)),
		},
	)
}

// performFetch returns a partially filled result even on failure so the
// status code can still be recorded.
func (f *ResponseFetcher) performFetch(ctx context.Context, fetchUrl string) (FetchResult, *FetchError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchUrl, nil)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseInvalidRequest,
			URL:       fetchUrl,
			Err:       err,
		}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: !errors.Is(err, context.Canceled),
			Cause:     ErrCauseNetworkFailure,
			URL:       fetchUrl,
			Err:       err,
		}
	}
	defer resp.Body.Close()

	partial := FetchResult{
		meta: ResponseMeta{
			statusCode:  resp.StatusCode,
			contentType: resp.Header.Get("Content-Type"),
		},
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return partial, &FetchError{
			Message:   fmt.Sprintf("status %d", resp.StatusCode),
			Retryable: resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
			Cause:     ErrCauseUnexpectedStatus,
			URL:       fetchUrl,
			Err:       fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return partial, &FetchError{
			Message:   fmt.Sprintf("failed to read response body: %v", err),
			Retryable: true,
			Cause:     ErrCauseReadResponseBodyError,
			URL:       fetchUrl,
			Err:       err,
		}
	}

	if len(body) == 0 {
		return partial, &FetchError{
			Message:   "no content received",
			Retryable: true,
			Cause:     ErrCauseEmptyBody,
			URL:       fetchUrl,
			Err:       ErrEmptyBody,
		}
	}

	partial.text = string(body)
	partial.meta.contentHash = f.contentHash(partial.text)
	return partial, nil
}

func (f *ResponseFetcher) contentHash(text string) string {
	hash, err := hashutil.HashString(text, f.hashAlgo)
	if err != nil {
		return ""
	}
	return hash
}
