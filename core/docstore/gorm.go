package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentRow is the relational shape of a stored document. The collection
// column carries the full collection path, including child collection paths
// like "prompts/p1/likes".
type documentRow struct {
	Collection string `gorm:"primaryKey;column:collection;size:191"`
	DocID      string `gorm:"primaryKey;column:doc_id;size:191"`
	Data       []byte `gorm:"column:data;type:json"`
}

// TableName sets the table name for GORM.
func (documentRow) TableName() string {
	return "documents"
}

type gormClient struct {
	db *gorm.DB
}

// NewGormClient creates a document store client backed by a relational table.
// It migrates the documents table on startup.
func NewGormClient(db *gorm.DB) (Client, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return &gormClient{db: db}, nil
}

func (c *gormClient) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (c *gormClient) Get(ctx context.Context, collection, id string) (*Document, error) {
	var row documentRow
	err := c.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return rowToDocument(row)
}

func (c *gormClient) List(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	var rows []documentRow
	err := c.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("doc_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := rowToDocument(row)
		if err != nil {
			return nil, err
		}
		// Filters evaluate in memory. Portable across MySQL and SQLite JSON
		// handling, and fine at admin-tooling scale.
		if matchesFilters(*doc, filters) {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

func (c *gormClient) ListChildren(ctx context.Context, collection, id, child string) ([]Document, error) {
	return c.List(ctx, ChildPath(collection, id, child))
}

func (c *gormClient) Create(ctx context.Context, collection, id string, fields map[string]any) error {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&documentRow{}).
		Where("collection = ? AND doc_id = ?", collection, id).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check %s/%s: %w", collection, id, err)
	}
	if count > 0 {
		return ErrExists
	}

	row, err := documentToRow(collection, id, fields)
	if err != nil {
		return err
	}
	if err := c.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create %s/%s: %w", collection, id, err)
	}
	return nil
}

func (c *gormClient) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	row, err := documentToRow(collection, id, fields)
	if err != nil {
		return err
	}
	err = c.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (c *gormClient) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	doc, err := c.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	for k, v := range fields {
		doc.Fields[k] = v
	}

	data, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
	}
	err = c.db.WithContext(ctx).
		Model(&documentRow{}).
		Where("collection = ? AND doc_id = ?", collection, id).
		Update("data", data).Error
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (c *gormClient) Delete(ctx context.Context, collection, id string) error {
	err := c.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&documentRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (c *gormClient) DeleteChild(ctx context.Context, collection, id, child, childID string) error {
	return c.Delete(ctx, ChildPath(collection, id, child), childID)
}

func rowToDocument(row documentRow) (*Document, error) {
	fields := make(map[string]any)
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &fields); err != nil {
			return nil, fmt.Errorf("corrupt payload for %s/%s: %w", row.Collection, row.DocID, err)
		}
	}
	return &Document{ID: row.DocID, Fields: fields}, nil
}

func documentToRow(collection, id string, fields map[string]any) (documentRow, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return documentRow{}, fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
	}
	return documentRow{Collection: collection, DocID: id, Data: data}, nil
}

func matchesFilters(doc Document, filters []Filter) bool {
	for _, f := range filters {
		v, ok := doc.Fields[f.Field]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", v) != fmt.Sprintf("%v", f.Equals) {
			return false
		}
	}
	return true
}
