package parser

import (
	"io"

	"git.lost.host/meutraa/keyed/internal/game"
)

type Parser interface {
	Parse(file string) (*game.Song, error)
	Read(name string, r io.Reader) (*game.Song, error)
}
