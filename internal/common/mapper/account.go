package mapper

import (
	"github.com/AlibekovAA/account-service/backend/internal/account/domain"
	"github.com/AlibekovAA/account-service/backend/internal/common/dto"
)

func AccountToDTO(account domain.Account) dto.Account {
	return dto.Account{
		ID:          string(account.ID),
		FullName:    account.FullName,
		Username:    account.Username,
		Email:       account.Email,
		LastLoginAt: account.LastLoginAt,
		CreatedAt:   account.CreatedAt,
	}
}
