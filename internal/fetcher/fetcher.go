package fetcher

import (
	"context"

	"github.com/rohmanhakim/lobo/pkg/failure"
)

type Fetcher interface {
	Fetch(
		ctx context.Context,
		fetchUrl string,
		allowCache bool,
	) (FetchResult, failure.ClassifiedError)
}
