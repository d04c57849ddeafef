package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"feeportal_backend/internals/constants"
	programModel "feeportal_backend/internals/features/academics/programs/model"
	"feeportal_backend/internals/features/finance/payments/service"
	userModel "feeportal_backend/internals/features/users/user/model"
)

type AccountRepository struct {
	DB *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

func (r *AccountRepository) LoadAccount(ctx context.Context, userID uuid.UUID) (*service.Account, error) {
	var user userModel.UserModel
	if err := r.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	acc := &service.Account{User: user}
	if user.ProgramID == nil {
		return acc, nil
	}

	var program programModel.ProgramModel
	err := r.DB.WithContext(ctx).First(&program, "program_id = ?", *user.ProgramID).Error
	switch {
	case err == nil:
		acc.Program = &program
	case errors.Is(err, gorm.ErrRecordNotFound):
		// program deleted after assignment: treat as unassigned
	default:
		return nil, err
	}
	return acc, nil
}

func (r *AccountRepository) ListStudentAccounts(ctx context.Context) ([]service.Account, error) {
	var users []userModel.UserModel
	if err := r.DB.WithContext(ctx).
		Where("role = ? AND is_active = ? AND program_id IS NOT NULL", constants.RoleStudent, true).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(users))
	seen := map[uuid.UUID]bool{}
	for _, u := range users {
		if !seen[*u.ProgramID] {
			seen[*u.ProgramID] = true
			ids = append(ids, *u.ProgramID)
		}
	}
	var programs []programModel.ProgramModel
	if err := r.DB.WithContext(ctx).Where("program_id IN ?", ids).Find(&programs).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*programModel.ProgramModel, len(programs))
	for i := range programs {
		byID[programs[i].ProgramID] = &programs[i]
	}

	out := make([]service.Account, 0, len(users))
	for _, u := range users {
		out = append(out, service.Account{User: u, Program: byID[*u.ProgramID]})
	}
	return out, nil
}
