package ports

import (
	"context"

	"github.com/bnema/pocketbot/internal/domain"
)

type Bookmarks interface {
	RequestToken(ctx context.Context, redirectURI string) (string, error)
	AuthorizeURL(requestToken string, redirectURI string) (string, error)
	ExchangeToken(ctx context.Context, requestToken string) (string, error)
	Add(ctx context.Context, accessToken string, itemURL string) error
	Get(ctx context.Context, accessToken string, count int) ([]domain.Item, error)
	Collections(ctx context.Context, perPage int) ([]domain.Collection, error)
}
