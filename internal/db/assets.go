package db

import (
	"database/sql"
	"fmt"
	"time"
)

type ResourceAsset struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	AssetType  string    `json:"asset_type"`
	Label      string    `json:"label"`
	URL        string    `json:"url,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func (db *DB) CreateAsset(businessID, assetType, label, url, status string) (*ResourceAsset, error) {
	id := NewID()
	if status == "" {
		status = "pending"
	}
	_, err := db.Exec(`
		INSERT INTO resource_assets (id, business_id, asset_type, label, url, status)
		VALUES (?, ?, ?, ?, ?, ?)`, id, businessID, assetType, label, url, status)
	if err != nil {
		return nil, fmt.Errorf("creating resource asset: %w", err)
	}
	a := &ResourceAsset{}
	var u sql.NullString
	err = db.QueryRow(`
		SELECT id, business_id, asset_type, label, url, status, created_at
		FROM resource_assets WHERE id = ?`, id).Scan(
		&a.ID, &a.BusinessID, &a.AssetType, &a.Label, &u, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.URL = u.String
	return a, nil
}

func (db *DB) ListAssets(businessID string) ([]*ResourceAsset, error) {
	rows, err := db.Query(`
		SELECT id, business_id, asset_type, label, url, status, created_at
		FROM resource_assets WHERE business_id = ? ORDER BY rowid`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []*ResourceAsset{}
	for rows.Next() {
		a := &ResourceAsset{}
		var u sql.NullString
		if err := rows.Scan(&a.ID, &a.BusinessID, &a.AssetType, &a.Label, &u, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.URL = u.String
		assets = append(assets, a)
	}
	return assets, rows.Err()
}
