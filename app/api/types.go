package api

import (
	"github.com/lysyi3m/techdeck/app/database"
	"github.com/lysyi3m/techdeck/app/deck"
	"github.com/lysyi3m/techdeck/app/item"
)

const pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

type RenderFunc func(it item.Item, c deck.Context) ([]byte, error)

type Handler struct {
	render    RenderFunc
	slideCtx  deck.Context
	buildRepo database.BuildRepositoryInterface
	version   string
}
