package repository

import (
	"context"

	"github.com/Futarimiti/riichi-hairi/core/domain/entity"
)

// SessionRecordRepository 会话存档仓储接口
type SessionRecordRepository interface {
	// Save 保存存档
	Save(ctx context.Context, record *entity.SessionRecord) error

	// FindByID 根据ID查找存档
	FindByID(ctx context.Context, id string) (*entity.SessionRecord, error)

	// List 按创建时间倒序分页
	List(ctx context.Context, limit, offset int) ([]*entity.SessionRecord, error)
}
