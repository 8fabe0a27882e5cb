package ports

import (
	"context"

	"github.com/bnema/pocketbot/internal/domain"
)

type Poster interface {
	Post(ctx context.Context, reply domain.Reply) error
}
