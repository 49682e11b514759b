package deck

import (
	"errors"
	"fmt"

	"github.com/lysyi3m/techdeck/app/item"
	"github.com/lysyi3m/techdeck/app/pptx"
)

var ErrEmptyItem = errors.New("item has neither title nor url")

// RenderSingleUpdateSlide renders one item as a single-slide presentation
// and returns the package bytes.
func RenderSingleUpdateSlide(it item.Item, c Context) ([]byte, error) {
	it = item.NewNormalizer().Tidy(it)
	if it.Title == "" && it.URL == "" {
		return nil, ErrEmptyItem
	}
	c.Month = it.Month

	p := pptx.New()
	AddItemSlide(p, &c, it)

	data, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render slide: %w", err)
	}
	return data, nil
}
