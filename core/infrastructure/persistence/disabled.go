package persistence

import (
	"context"

	"github.com/Futarimiti/riichi-hairi/core/domain/entity"
	"github.com/Futarimiti/riichi-hairi/core/domain/repository"
)

// DisabledRepository 未配置存储后端时使用，所有操作返回 ErrStoreDisabled
type DisabledRepository struct{}

func (DisabledRepository) Save(context.Context, *entity.SessionRecord) error {
	return repository.ErrStoreDisabled
}

func (DisabledRepository) FindByID(context.Context, string) (*entity.SessionRecord, error) {
	return nil, repository.ErrStoreDisabled
}

func (DisabledRepository) List(context.Context, int, int) ([]*entity.SessionRecord, error) {
	return nil, repository.ErrStoreDisabled
}
