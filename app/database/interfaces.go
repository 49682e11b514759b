package database

import (
	"github.com/lysyi3m/techdeck/app/item"
)

type BuildRepositoryInterface interface {
	RecordBuild(month, outputPath string, items []item.Item) (int64, error)
	GetBuild(id int64) (*Build, error)
	GetBuildItems(buildID int64) ([]BuildItem, error)
	GetBuildCount() (int, error)
	GetRecentBuilds(limit int) ([]Build, error)
}
