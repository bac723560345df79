package admin_service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"order-admin/inout"
	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"
	"order-admin/pkg/audit"
	"order-admin/pkg/events"
	"order-admin/pkg/lock"
	"order-admin/pkg/logger"
	"order-admin/pkg/monitoring"

	"gorm.io/gorm"
)

const (
	importLockTTL  = 2 * time.Minute
	importLockWait = 5 * time.Second
)

// ImportService 表格批量导入：解析客户、货源、集运仓名称后整批创建订单
type ImportService struct {
	deps Deps
}

func NewImportService(deps Deps) *ImportService {
	return &ImportService{deps: deps.withDefaults()}
}

// CheckMissingUserNames 返回不存在的客户名称，按首次出现顺序，不会返回 nil
func (s *ImportService) CheckMissingUserNames(ctx context.Context, names []string) ([]string, error) {
	names = distinctNames(names)
	if len(names) == 0 {
		return []string{}, nil
	}

	existing, err := findUsersByName(s.deps.DB.WithContext(ctx), names)
	if err != nil {
		return nil, translateError(err, "客户不存在")
	}

	missing := make([]string, 0)
	for _, name := range names {
		if len(existing[strings.ToLower(name)]) == 0 {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// parsedRow 通过校验的导入行
type parsedRow struct {
	index int
	order admin_model.Order
	user  string
	src   string
	store string
}

// BulkCreate 整批创建订单。存在未知客户且未确认时返回 ReferenceUnresolved，
// 确认后在同一事务中先创建客户再创建订单，任一步失败整体回滚
func (s *ImportService) BulkCreate(ctx context.Context, adminID string, rows []inout.BulkImportRow, createMissingUsers bool) (orders []admin_model.Order, err error) {
	started := s.deps.Now()
	rec := audit.ImportRecord{AdminID: adminID, RowCount: len(rows), StartedAt: started, CreatedUsers: []string{}}
	defer func() {
		rec.Outcome = importOutcome(err)
		if err != nil {
			rec.Error = err.Error()
			if e, ok := apperr.As(err); ok {
				rec.Missing = e.Missing
			}
		}
		rec.CreatedOrders = len(orders)
		rec.Duration = time.Since(started).Milliseconds()
		monitoring.RecordBulkImport(rec.Outcome)
		if aerr := s.deps.Audit.RecordImport(ctx, rec); aerr != nil {
			logger.WithComponent(ctx, "import").WithError(aerr).Warn("写入导入审计失败")
		}
	}()

	if len(rows) == 0 {
		return nil, apperr.Validation("导入数据为空", map[string]string{"orders": "至少需要一行"})
	}
	parsed, err := s.parseRows(rows)
	if err != nil {
		return nil, err
	}

	release, err := s.deps.Locker.Acquire(ctx, "order_import:"+adminID, importLockTTL, importLockWait)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return nil, apperr.Conflict("已有导入任务正在进行，请稍后重试", err)
		}
		return nil, apperr.Internal("获取导入锁失败", err)
	}
	defer release()

	// 固定先拿导入锁再拿名称锁
	if createMissingUsers {
		var releaseNames func()
		if releaseNames, err = s.deps.lockUserNames(ctx); err != nil {
			return nil, err
		}
		defer releaseNames()
	}

	err = s.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userIDs, created, err := s.resolveUsers(tx, parsed, createMissingUsers)
		if err != nil {
			return err
		}
		sourceIDs, err := resolveNamed[admin_model.Source](tx, collect(parsed, func(r parsedRow) string { return r.src }), apperr.RefSource)
		if err != nil {
			return err
		}
		storeIDs, err := resolveNamed[admin_model.ShippingStore](tx, collect(parsed, func(r parsedRow) string { return r.store }), apperr.RefShippingStore)
		if err != nil {
			return err
		}

		orders = make([]admin_model.Order, 0, len(parsed))
		for _, r := range parsed {
			o := r.order
			o.UserID = userIDs[strings.ToLower(r.user)]
			if r.src != "" {
				id := sourceIDs[strings.ToLower(r.src)]
				o.SourceID = &id
			}
			if r.store != "" {
				id := storeIDs[strings.ToLower(r.store)]
				o.ShippingStoreID = &id
			}
			orders = append(orders, o)
		}
		if err := tx.Create(&orders).Error; err != nil {
			return apperr.BatchFailure("批量创建订单失败", err)
		}
		rec.CreatedUsers = created
		return nil
	})
	if err != nil {
		orders = nil
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		return nil, apperr.BatchFailure("批量创建订单失败", err)
	}

	monitoring.RecordOrdersCreated("bulk", len(orders))
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	s.deps.publish(ctx, events.NewEvent(events.OrderBulkCreated, events.BulkCreated{
		AdminID:      adminID,
		OrderIDs:     ids,
		CreatedUsers: rec.CreatedUsers,
	}))
	return orders, nil
}

func (s *ImportService) parseRows(rows []inout.BulkImportRow) ([]parsedRow, error) {
	now := s.deps.Now()
	fields := map[string]string{}
	parsed := make([]parsedRow, 0, len(rows))

	for i, row := range rows {
		userName := row.UserName.String()
		if userName == "" {
			fields[fmt.Sprintf("rows[%d].userName", i)] = "客户名称不能为空"
		}
		orderDate, ok := LooseDate(row.OrderDate, s.deps.Location, now)
		if !ok {
			fields[fmt.Sprintf("rows[%d].orderDate", i)] = "无法解析日期: " + row.OrderDate.String()
		}

		status := LooseStatus(row.Status)
		parsed = append(parsed, parsedRow{
			index: i,
			user:  userName,
			src:   row.SourceName.String(),
			store: row.ShippingStoreName.String(),
			order: admin_model.Order{
				OrderNumber:       row.OrderNumber.String(),
				OrderDate:         orderDate,
				SKU:               row.SKU.String(),
				Size:              LooseDecimal(row.Size),
				Deposit:           LooseDecimal(row.Deposit),
				TotalPrice:        LooseDecimal(row.TotalPrice),
				ShippingFee:       LooseDecimal(row.ShippingFee),
				SecondShippingFee: LooseDecimal(row.SecondShippingFee),
				DeliveryCode:      row.DeliveryCode.String(),
				CheckBox:          LooseBool(row.CheckBox),
				Status:            status,
				StatusChangeDate:  NextStatusChangeDate(admin_model.StatusOngoing, status, nil, now),
			},
		})
	}

	if len(fields) > 0 {
		return nil, apperr.Validation("导入数据校验失败", fields)
	}
	return parsed, nil
}

// resolveUsers 名称到客户ID（key 为小写名称），按需创建缺失的客户
func (s *ImportService) resolveUsers(tx *gorm.DB, rows []parsedRow, createMissing bool) (map[string]string, []string, error) {
	names := collect(rows, func(r parsedRow) string { return r.user })
	existing, err := findUsersByName(tx, names)
	if err != nil {
		return nil, nil, err
	}

	ids := make(map[string]string, len(names))
	ambiguous := map[string]string{}
	var missing []string
	for _, name := range names {
		key := strings.ToLower(name)
		switch found := existing[key]; len(found) {
		case 0:
			missing = append(missing, name)
		case 1:
			ids[key] = found[0]
		default:
			ambiguous[key] = name
		}
	}

	if len(ambiguous) > 0 {
		fields := map[string]string{}
		for _, r := range rows {
			if name, ok := ambiguous[strings.ToLower(r.user)]; ok {
				fields[fmt.Sprintf("rows[%d].userName", r.index)] = "存在多个同名客户: " + name
			}
		}
		return nil, nil, apperr.Validation("客户名称不唯一", fields)
	}

	created := []string{}
	if len(missing) > 0 {
		if !createMissing {
			return nil, nil, apperr.ReferenceUnresolved(apperr.RefUser, missing)
		}
		users := make([]admin_model.User, len(missing))
		for i, name := range missing {
			users[i] = admin_model.User{FullName: name}
		}
		if err := tx.Create(&users).Error; err != nil {
			return nil, nil, apperr.BatchFailure("批量创建客户失败", err)
		}
		for _, u := range users {
			ids[strings.ToLower(u.FullName)] = u.ID
			created = append(created, u.FullName)
		}
	}
	return ids, created, nil
}

// findUsersByName 大小写不敏感匹配，返回小写名称到客户ID列表
func findUsersByName(tx *gorm.DB, names []string) (map[string][]string, error) {
	out := make(map[string][]string, len(names))
	if len(names) == 0 {
		return out, nil
	}
	var users []admin_model.User
	if err := tx.Select("id, full_name").Where("LOWER(full_name) IN ?", lowerAll(names)).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		key := strings.ToLower(strings.TrimSpace(u.FullName))
		out[key] = append(out[key], u.ID)
	}
	return out, nil
}

type namedRow interface {
	admin_model.Source | admin_model.ShippingStore
}

// resolveNamed 货源或集运仓名称到ID，存在未知名称时返回 ReferenceUnresolved
func resolveNamed[T namedRow](tx *gorm.DB, names []string, refKind string) (map[string]string, error) {
	ids := make(map[string]string, len(names))
	if len(names) == 0 {
		return ids, nil
	}

	var found []struct {
		ID   string
		Name string
	}
	if err := tx.Model(new(T)).Select("id, name").Where("LOWER(name) IN ?", lowerAll(names)).Find(&found).Error; err != nil {
		return nil, err
	}
	for _, f := range found {
		ids[strings.ToLower(strings.TrimSpace(f.Name))] = f.ID
	}

	var missing []string
	for _, name := range names {
		if _, ok := ids[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.ReferenceUnresolved(refKind, missing)
	}
	return ids, nil
}

func collect(rows []parsedRow, pick func(parsedRow) string) []string {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, pick(r))
	}
	return distinctNames(names)
}

func importOutcome(err error) string {
	switch {
	case err == nil:
		return audit.OutcomeSuccess
	case apperr.Is(err, apperr.KindReferenceUnresolved):
		return audit.OutcomeUnresolved
	case apperr.Is(err, apperr.KindValidation):
		return audit.OutcomeInvalid
	default:
		return audit.OutcomeFailed
	}
}
