package scraper

import "context"

type PageClient interface {
	FetchPage(ctx context.Context, city, currency string) (string, error)
}
