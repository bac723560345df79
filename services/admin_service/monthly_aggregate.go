package admin_service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"order-admin/inout"
	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"
	"order-admin/pkg/monitoring"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MonthlyAggregateStore 每个管理员每月一条记录，重复写入覆盖同月记录
type MonthlyAggregateStore[T any, PT interface {
	*T
	admin_model.MonthKeyed
}] struct {
	deps Deps
	kind string
}

func NewMonthlyAggregateStore[T any, PT interface {
	*T
	admin_model.MonthKeyed
}](deps Deps, kind string) *MonthlyAggregateStore[T, PT] {
	return &MonthlyAggregateStore[T, PT]{deps: deps.withDefaults(), kind: kind}
}

// Bucket 参考时区下的月份 YYYY-MM
func (s *MonthlyAggregateStore[T, PT]) Bucket(ref time.Time) string {
	return ref.In(s.deps.Location).Format(admin_model.MonthBucketLayout)
}

// Upsert 以 (admin_id, month_bucket) 唯一键冲突更新，保留已有记录的 id 和 dateTime
func (s *MonthlyAggregateStore[T, PT]) Upsert(ctx context.Context, adminID string, ref time.Time, fill func(PT)) (PT, error) {
	bucket := s.Bucket(ref)
	row := PT(new(T))
	row.SetMonthKey(adminID, bucket, ref)
	fill(row)

	var saved PT
	err := s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "admin_id"}, {Name: "month_bucket"}},
			DoUpdates: clause.AssignmentColumns(append(row.PayloadColumns(), "updated_at")),
		}).Create(row).Error
		if err != nil {
			return err
		}
		found := PT(new(T))
		if err := tx.Where("admin_id = ? AND month_bucket = ?", adminID, bucket).First(found).Error; err != nil {
			return err
		}
		saved = found
		return nil
	})
	if err != nil {
		var zero PT
		return zero, translateError(err, "记录不存在")
	}

	monitoring.RecordMonthlyUpsert(s.kind)
	return saved, nil
}

// Get 查询参考日期所在月份的记录，不存在时返回 nil
func (s *MonthlyAggregateStore[T, PT]) Get(ctx context.Context, adminID string, ref time.Time) (PT, error) {
	var zero PT
	found := PT(new(T))
	err := s.deps.DB.WithContext(ctx).
		Where("admin_id = ? AND month_bucket = ?", adminID, s.Bucket(ref)).
		First(found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zero, nil
	}
	if err != nil {
		return zero, translateError(err, "记录不存在")
	}
	return found, nil
}

// OperationalCostService 月度运营成本
type OperationalCostService struct {
	store *MonthlyAggregateStore[admin_model.OperationalCost, *admin_model.OperationalCost]
}

func NewOperationalCostService(deps Deps) *OperationalCostService {
	return &OperationalCostService{
		store: NewMonthlyAggregateStore[admin_model.OperationalCost, *admin_model.OperationalCost](deps, "operational_cost"),
	}
}

func (s *OperationalCostService) Save(ctx context.Context, adminID string, in inout.OperationalCostCreateReq) (*admin_model.OperationalCost, error) {
	ref, err := s.store.deps.parseDate("dateTime", in.DateTime)
	if err != nil {
		return nil, err
	}
	return s.store.Upsert(ctx, adminID, ref, func(c *admin_model.OperationalCost) {
		c.Amount = in.Amount
	})
}

func (s *OperationalCostService) Get(ctx context.Context, adminID, dateTime string) (*admin_model.OperationalCost, error) {
	ref, err := s.store.deps.parseDate("dateTime", dateTime)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, adminID, ref)
}

// TransactionBalanceService 月度余额表
type TransactionBalanceService struct {
	store *MonthlyAggregateStore[admin_model.TransactionBalance, *admin_model.TransactionBalance]
}

func NewTransactionBalanceService(deps Deps) *TransactionBalanceService {
	return &TransactionBalanceService{
		store: NewMonthlyAggregateStore[admin_model.TransactionBalance, *admin_model.TransactionBalance](deps, "transaction_balance"),
	}
}

func (s *TransactionBalanceService) Save(ctx context.Context, adminID string, in inout.TransactionBalanceCreateReq) (*admin_model.TransactionBalance, error) {
	if !json.Valid([]byte(in.Data)) {
		return nil, apperr.Validation("data 不是合法的 JSON", map[string]string{"data": "invalid json"})
	}
	ref, err := s.store.deps.parseDate("dateTime", in.DateTime)
	if err != nil {
		return nil, err
	}
	return s.store.Upsert(ctx, adminID, ref, func(b *admin_model.TransactionBalance) {
		b.Data = datatypes.JSON(in.Data)
	})
}

func (s *TransactionBalanceService) Get(ctx context.Context, adminID, dateTime string) (*admin_model.TransactionBalance, error) {
	ref, err := s.store.deps.parseDate("dateTime", dateTime)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, adminID, ref)
}
