package database

import (
	"context"

	"gorm.io/gorm"

	"coursegpt-server/internal/domain/document"
	"coursegpt-server/internal/utils/functional"
	"coursegpt-server/internal/utils/platformerrors"
)

// DocumentRepository is the Postgres-backed document library store.
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Save(ctx context.Context, doc document.Document) error {
	record := DocumentRecord{
		ID:         doc.ID,
		Folder:     doc.Folder,
		FileName:   doc.FileName,
		FileType:   doc.FileType,
		Text:       doc.Text,
		UploadedAt: doc.UploadedAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"saving document failed", err, "")
	}
	return nil
}

func (r *DocumentRepository) ByFolder(ctx context.Context, folder string) ([]document.Document, error) {
	var records []DocumentRecord
	err := r.db.WithContext(ctx).
		Where("folder = ?", folder).
		Order("uploaded_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"loading documents failed", err, "")
	}
	return functional.Map(records, func(rec DocumentRecord) document.Document {
		return document.Document{
			ID:         rec.ID,
			Folder:     rec.Folder,
			FileName:   rec.FileName,
			FileType:   rec.FileType,
			Text:       rec.Text,
			UploadedAt: rec.UploadedAt,
		}
	}), nil
}

func (r *DocumentRepository) Folders(ctx context.Context) ([]string, error) {
	var folders []string
	err := r.db.WithContext(ctx).
		Model(&DocumentRecord{}).
		Distinct("folder").
		Pluck("folder", &folders).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"listing folders failed", err, "")
	}
	return folders, nil
}
