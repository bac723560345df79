package admin_service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"order-admin/inout"
	"order-admin/model/admin_model"
	"order-admin/pkg/apperr"
	"order-admin/pkg/logger"
	"order-admin/pkg/query"
	"order-admin/pkg/storage"
	"order-admin/utils"

	"github.com/xuri/excelize/v2"
)

// 表头归一化后（小写，去掉空格、下划线、连字符）到导入字段的映射
var headerFields = map[string]func(*inout.BulkImportRow) *inout.Loose{
	"orderdate":         func(r *inout.BulkImportRow) *inout.Loose { return &r.OrderDate },
	"date":              func(r *inout.BulkImportRow) *inout.Loose { return &r.OrderDate },
	"sku":               func(r *inout.BulkImportRow) *inout.Loose { return &r.SKU },
	"size":              func(r *inout.BulkImportRow) *inout.Loose { return &r.Size },
	"deposit":           func(r *inout.BulkImportRow) *inout.Loose { return &r.Deposit },
	"totalprice":        func(r *inout.BulkImportRow) *inout.Loose { return &r.TotalPrice },
	"total":             func(r *inout.BulkImportRow) *inout.Loose { return &r.TotalPrice },
	"username":          func(r *inout.BulkImportRow) *inout.Loose { return &r.UserName },
	"customer":          func(r *inout.BulkImportRow) *inout.Loose { return &r.UserName },
	"fullname":          func(r *inout.BulkImportRow) *inout.Loose { return &r.UserName },
	"ordernumber":       func(r *inout.BulkImportRow) *inout.Loose { return &r.OrderNumber },
	"deliverycode":      func(r *inout.BulkImportRow) *inout.Loose { return &r.DeliveryCode },
	"checkbox":          func(r *inout.BulkImportRow) *inout.Loose { return &r.CheckBox },
	"sourcename":        func(r *inout.BulkImportRow) *inout.Loose { return &r.SourceName },
	"source":            func(r *inout.BulkImportRow) *inout.Loose { return &r.SourceName },
	"shippingfee":       func(r *inout.BulkImportRow) *inout.Loose { return &r.ShippingFee },
	"secondshippingfee": func(r *inout.BulkImportRow) *inout.Loose { return &r.SecondShippingFee },
	"shippingstorename": func(r *inout.BulkImportRow) *inout.Loose { return &r.ShippingStoreName },
	"shippingstore":     func(r *inout.BulkImportRow) *inout.Loose { return &r.ShippingStoreName },
	"store":             func(r *inout.BulkImportRow) *inout.Loose { return &r.ShippingStoreName },
	"status":            func(r *inout.BulkImportRow) *inout.Loose { return &r.Status },
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

// ParseWorkbook 读取第一个工作表，首行为表头，空行跳过；
// 单元格按原始值读取，日期保留为 Excel 序列号交给 LooseDate
func ParseWorkbook(r io.Reader) ([]inout.BulkImportRow, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperr.Validation("无法读取表格文件", map[string]string{"file": err.Error()})
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.Validation("表格中没有工作表", map[string]string{"file": "empty workbook"})
	}
	grid, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperr.Validation("无法读取工作表", map[string]string{"file": err.Error()})
	}
	if len(grid) == 0 {
		return []inout.BulkImportRow{}, nil
	}

	columns := make([]func(*inout.BulkImportRow) *inout.Loose, len(grid[0]))
	matched := 0
	for i, h := range grid[0] {
		if field, ok := headerFields[normalizeHeader(h)]; ok {
			columns[i] = field
			matched++
		}
	}
	if matched == 0 {
		return nil, apperr.Validation("表头无法识别", map[string]string{"file": strings.Join(grid[0], ",")})
	}

	rows := make([]inout.BulkImportRow, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		var row inout.BulkImportRow
		filled := false
		for i, cell := range cells {
			if i >= len(columns) || columns[i] == nil || strings.TrimSpace(cell) == "" {
				continue
			}
			*columns[i](&row) = inout.NewLoose(cell)
			filled = true
		}
		if filled {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ParseUpload 解析上传的表格并返回缺失客户，配置了对象存储时归档原文件
func (s *ImportService) ParseUpload(ctx context.Context, filename string, content []byte) (*inout.ImportParseResp, error) {
	if len(content) > storage.MaxFileSize {
		return nil, apperr.Validation("文件过大", map[string]string{"file": fmt.Sprintf("最大 %d MB", storage.MaxFileSize/1024/1024)})
	}
	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".xlsx" {
		return nil, apperr.Validation("仅支持 xlsx 文件", map[string]string{"file": filename})
	}

	rows, err := ParseWorkbook(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.UserName.String())
	}
	missing, err := s.CheckMissingUserNames(ctx, names)
	if err != nil {
		return nil, err
	}

	key, err := s.deps.Archiver.Archive(ctx, "imports", filename, content)
	if err != nil {
		logger.WithComponent(ctx, "import").WithError(err).WithField("file", filename).Warn("导入文件归档失败")
	}

	return &inout.ImportParseResp{Rows: rows, MissingUsers: missing, ArchiveKey: key}, nil
}

var exportHeader = []interface{}{
	"orderDate", "orderNumber", "SKU", "size", "deposit", "totalPrice", "shippingFee",
	"secondShippingFee", "deliveryCode", "checkBox", "status", "statusChangeDate",
	"userName", "sourceName", "shippingStoreName",
}

const exportSheet = "Orders"

// Export 按列表条件导出全部匹配订单，忽略分页；表头与导入一致，可直接回导
func (s *OrderService) Export(ctx context.Context, req query.Request, who utils.Identity) (*bytes.Buffer, error) {
	req.Pagination = query.Pagination{}
	c, err := s.compile(req, who)
	if err != nil {
		return nil, err
	}
	orders, err := query.Find[admin_model.Order](ctx, s.deps.DB, c)
	if err != nil {
		return nil, translateError(err, "订单不存在")
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, apperr.Internal("生成表格失败", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, apperr.Internal("生成表格失败", err)
	}

	const dateLayout = "2006-01-02 15:04:05"
	for i, o := range orders {
		statusChanged := ""
		if o.StatusChangeDate != nil {
			statusChanged = o.StatusChangeDate.In(s.deps.Location).Format(dateLayout)
		}
		var userName, sourceName, storeName string
		if o.User != nil {
			userName = o.User.FullName
		}
		if o.Source != nil {
			sourceName = o.Source.Name
		}
		if o.ShippingStore != nil {
			storeName = o.ShippingStore.Name
		}
		row := []interface{}{
			o.OrderDate.In(s.deps.Location).Format(dateLayout), o.OrderNumber, o.SKU,
			o.Size.String(), o.Deposit.String(), o.TotalPrice.String(), o.ShippingFee.String(),
			o.SecondShippingFee.String(), o.DeliveryCode, o.CheckBox, o.Status, statusChanged,
			userName, sourceName, storeName,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, apperr.Internal("生成表格失败", err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, apperr.Internal("生成表格失败", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperr.Internal("生成表格失败", err)
	}
	return buf, nil
}
