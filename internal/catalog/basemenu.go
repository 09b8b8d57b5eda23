package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/thisdjs/breakfast-menu-app/internal/models"
)

//go:embed basemenu.json
var defaultBaseMenu []byte

// LoadBaseMenu reads the static base catalog from path, or from the embedded
// default menu when path is empty. Base item ids are assumed pre-unique; they
// are merged with user items, not regenerated.
func LoadBaseMenu(path string) ([]models.MenuItem, error) {
	data := defaultBaseMenu
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading base menu: %w", err)
		}
	}

	var items []models.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing base menu: %w", err)
	}
	return items, nil
}
