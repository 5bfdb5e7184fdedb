package db

import (
	"database/sql"
	"fmt"
	"time"
)

type Business struct {
	ID                 string    `json:"id"`
	OwnerID            string    `json:"owner_id"`
	Name               string    `json:"name"`
	Industry           string    `json:"industry,omitempty"`
	Objective          string    `json:"objective,omitempty"`
	BrandTone          string    `json:"brand_tone,omitempty"`
	ResourcesStatus    string    `json:"resources_status,omitempty"`
	ProductDescription string    `json:"product_description,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type BusinessProfile struct {
	Name               string `json:"name"`
	Industry           string `json:"industry"`
	Objective          string `json:"objective"`
	BrandTone          string `json:"brand_tone"`
	ResourcesStatus    string `json:"resources_status"`
	ProductDescription string `json:"product_description"`
}

func (db *DB) CreateBusiness(ownerID string, p BusinessProfile) (*Business, error) {
	id := NewID()
	_, err := db.Exec(`
		INSERT INTO businesses (id, owner_id, name, industry, objective, brand_tone, resources_status, product_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ownerID, p.Name, p.Industry, p.Objective, p.BrandTone, p.ResourcesStatus, p.ProductDescription)
	if err != nil {
		return nil, fmt.Errorf("creating business: %w", err)
	}
	return db.GetBusiness(id)
}

func (db *DB) GetBusiness(id string) (*Business, error) {
	b := &Business{}
	var industry, objective, tone, resources, product sql.NullString
	err := db.QueryRow(`
		SELECT id, owner_id, name, industry, objective, brand_tone, resources_status, product_description, created_at
		FROM businesses WHERE id = ?`, id).Scan(
		&b.ID, &b.OwnerID, &b.Name, &industry, &objective, &tone, &resources, &product, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	b.Industry = industry.String
	b.Objective = objective.String
	b.BrandTone = tone.String
	b.ResourcesStatus = resources.String
	b.ProductDescription = product.String
	return b, nil
}

func (db *DB) UpdateBusiness(id string, p BusinessProfile) (*Business, error) {
	_, err := db.Exec(`
		UPDATE businesses
		SET name = ?, industry = ?, objective = ?, brand_tone = ?, resources_status = ?, product_description = ?
		WHERE id = ?`,
		p.Name, p.Industry, p.Objective, p.BrandTone, p.ResourcesStatus, p.ProductDescription, id)
	if err != nil {
		return nil, fmt.Errorf("updating business: %w", err)
	}
	return db.GetBusiness(id)
}

// SetBusinessField updates a single profile column by its onboarding step key.
// Unknown keys are ignored so free-form onboarding answers don't error.
func (db *DB) SetBusinessField(id, key, value string) error {
	columns := map[string]string{
		"industry":            "industry",
		"objective":           "objective",
		"brand_tone":          "brand_tone",
		"resources_status":    "resources_status",
		"product_description": "product_description",
	}
	col, ok := columns[key]
	if !ok {
		return nil
	}
	_, err := db.Exec("UPDATE businesses SET "+col+" = ? WHERE id = ?", value, id)
	return err
}
