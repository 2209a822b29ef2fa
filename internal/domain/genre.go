package domain

import "context"

type Genre struct {
	ID   int
	Name string
}

type GenreRepository interface {
	GetAll(ctx context.Context) ([]*Genre, error)
}
