package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lysyi3m/techdeck/app/item"
)

var _ BuildRepositoryInterface = (*BuildRepository)(nil)

type BuildRepository struct {
	db *DB
}

func NewBuildRepository(db *DB) *BuildRepository {
	return &BuildRepository{db: db}
}

// RecordBuild stores a build and its items in slide order.
func (r *BuildRepository) RecordBuild(month, outputPath string, items []item.Item) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO builds (month, output_path, item_count, created_at)
		VALUES (?, ?, ?, ?)
	`, month, outputPath, len(items), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to insert build: %w", err)
	}

	buildID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get build id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO build_items (build_id, position, roadmap_id, title, url, product, status, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer stmt.Close()

	for i, it := range items {
		_, err := stmt.Exec(buildID, i, it.RoadmapID, it.Title, it.URL, it.PrimaryProduct(), it.Status, it.Source)
		if err != nil {
			return 0, fmt.Errorf("failed to insert build item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit build: %w", err)
	}

	return buildID, nil
}

// GetBuild returns nil when the build does not exist.
func (r *BuildRepository) GetBuild(id int64) (*Build, error) {
	row := r.db.QueryRow(`
		SELECT id, month, output_path, item_count, created_at
		FROM builds
		WHERE id = ?
	`, id)

	build, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get build: %w", err)
	}
	return build, nil
}

func (r *BuildRepository) GetRecentBuilds(limit int) ([]Build, error) {
	rows, err := r.db.Query(`
		SELECT id, month, output_path, item_count, created_at
		FROM builds
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent builds: %w", err)
	}
	defer rows.Close()

	builds := make([]Build, 0)
	for rows.Next() {
		build, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan build row: %w", err)
		}
		builds = append(builds, *build)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating build rows: %w", err)
	}

	return builds, nil
}

func (r *BuildRepository) GetBuildItems(buildID int64) ([]BuildItem, error) {
	rows, err := r.db.Query(`
		SELECT build_id, position, roadmap_id, title, url, product, status, source
		FROM build_items
		WHERE build_id = ?
		ORDER BY position
	`, buildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get build items: %w", err)
	}
	defer rows.Close()

	items := make([]BuildItem, 0)
	for rows.Next() {
		var bi BuildItem
		err := rows.Scan(&bi.BuildID, &bi.Position, &bi.RoadmapID, &bi.Title, &bi.URL, &bi.Product, &bi.Status, &bi.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan build item row: %w", err)
		}
		items = append(items, bi)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating build item rows: %w", err)
	}

	return items, nil
}

func (r *BuildRepository) GetBuildCount() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM builds").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get build count: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(s scanner) (*Build, error) {
	var b Build
	var createdAt string
	if err := s.Scan(&b.ID, &b.Month, &b.OutputPath, &b.ItemCount, &createdAt); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	b.CreatedAt = t
	return &b, nil
}
