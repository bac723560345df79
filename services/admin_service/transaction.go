package admin_service

import (
	"context"
	"strings"

	"order-admin/inout"
	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"
	"order-admin/pkg/query"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var TransactionEntity = &query.Entity{
	Table: "transactions",
	Columns: map[string]string{
		"id":              "transactions.id",
		"userId":          "transactions.user_id",
		"amount":          "transactions.amount",
		"currency":        "transactions.currency",
		"exchangeRate":    "transactions.exchange_rate",
		"transactionDate": "transactions.transaction_date",
		"note":            "transactions.note",
		"createdAt":       "transactions.created_at",
		"userName":        "users.full_name",
	},
	DateColumns:  map[string]bool{"transactionDate": true, "createdAt": true},
	Searchable:   []string{"transactions.currency", "transactions.note", "users.full_name"},
	Joins:        []string{"LEFT JOIN users ON users.id = transactions.user_id"},
	Preloads:     []string{"User"},
	DefaultOrder: []string{"transactions.transaction_date DESC", "transactions.amount DESC"},
}

// TransactionService 换汇记录，只能访问当前管理员自己的记录
type TransactionService struct {
	deps Deps
}

func NewTransactionService(deps Deps) *TransactionService {
	return &TransactionService{deps: deps.withDefaults()}
}

func (s *TransactionService) List(ctx context.Context, adminID string, req query.Request) (query.Page[admin_model.Transaction], error) {
	c, err := query.Compile(TransactionEntity, req, s.deps.Location, query.WithOwner("transactions.admin_id", adminID))
	if err != nil {
		return query.Page[admin_model.Transaction]{}, err
	}
	page, err := query.Run[admin_model.Transaction](ctx, s.deps.DB, c)
	if err != nil {
		return query.Page[admin_model.Transaction]{}, translateError(err, "换汇记录不存在")
	}
	return page, nil
}

func (s *TransactionService) Create(ctx context.Context, adminID string, in inout.TransactionCreateReq) (*admin_model.Transaction, error) {
	date, err := s.deps.parseDate("transactionDate", in.TransactionDate)
	if err != nil {
		return nil, err
	}
	rate := decimal.NewFromInt(1)
	if in.ExchangeRate != nil {
		rate = *in.ExchangeRate
	}
	row := admin_model.Transaction{
		AdminID:         adminID,
		UserID:          emptyToNil(in.UserID),
		Amount:          in.Amount,
		Currency:        strings.ToUpper(strings.TrimSpace(in.Currency)),
		ExchangeRate:    rate,
		TransactionDate: date,
		Note:            in.Note,
	}

	err = s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, row.UserID, nil, nil); err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return nil, translateError(err, "换汇记录不存在")
	}
	return &row, nil
}

func (s *TransactionService) Update(ctx context.Context, adminID, id string, in inout.TransactionUpdateReq) (*admin_model.Transaction, error) {
	var row admin_model.Transaction
	err := s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND admin_id = ?", id, adminID).First(&row).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if in.UserID != nil {
			userID := emptyToNil(in.UserID)
			if err := checkReferences(tx, userID, nil, nil); err != nil {
				return err
			}
			updates["user_id"] = userID
		}
		if in.Amount != nil {
			updates["amount"] = *in.Amount
		}
		if in.Currency != nil {
			updates["currency"] = strings.ToUpper(strings.TrimSpace(*in.Currency))
		}
		if in.ExchangeRate != nil {
			updates["exchange_rate"] = *in.ExchangeRate
		}
		if in.TransactionDate != nil {
			date, err := s.deps.parseDate("transactionDate", *in.TransactionDate)
			if err != nil {
				return err
			}
			updates["transaction_date"] = date
		}
		if in.Note != nil {
			updates["note"] = *in.Note
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&row).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&row).Error
	})
	if err != nil {
		return nil, translateError(err, "换汇记录不存在")
	}
	return &row, nil
}

func (s *TransactionService) Delete(ctx context.Context, adminID, id string) error {
	res := s.deps.DB.WithContext(ctx).Where("id = ? AND admin_id = ?", id, adminID).Delete(&admin_model.Transaction{})
	if res.Error != nil {
		return translateError(res.Error, "换汇记录不存在")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("换汇记录不存在")
	}
	return nil
}
