package database

import (
	"context"

	"gorm.io/gorm"

	"coursegpt-server/internal/domain/conversation"
	"coursegpt-server/internal/utils/platformerrors"
)

// TurnRepository archives completed turns.
type TurnRepository struct {
	db *gorm.DB
}

func NewTurnRepository(db *gorm.DB) *TurnRepository {
	return &TurnRepository{db: db}
}

// ArchiveTurn persists one exchange.
func (r *TurnRepository) ArchiveTurn(ctx context.Context, conversationID string, turn conversation.Turn) error {
	record := TurnRecord{
		ID:             turn.ID,
		ConversationID: conversationID,
		UserText:       turn.UserText,
		AgentText:      turn.AgentText,
		Agent:          turn.Agent,
		CreatedAt:      turn.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"archiving turn failed", err, "")
	}
	return nil
}

// History returns the archived turns of a conversation, oldest first.
func (r *TurnRepository) History(ctx context.Context, conversationID string, limit int) ([]TurnRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var records []TurnRecord
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"loading turn history failed", err, "")
	}
	return records, nil
}
