package token

import "context"

type Store interface {
	CreateToken(ctx context.Context, t *Token) error
	GetToken(ctx context.Context) (*Token, error)
}
