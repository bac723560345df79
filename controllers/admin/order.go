package admin

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"order-admin/inout"
	"order-admin/pkg/apperr"
	"order-admin/pkg/response"
	"order-admin/pkg/storage"
	"order-admin/utils"

	"github.com/gin-gonic/gin"
)

func GetOrderList(c *gin.Context) {
	var params inout.ListReq
	if !bind(c, &params) {
		return
	}
	who, _ := utils.GetIdentity(c)
	page, err := OrderService.List(c.Request.Context(), params, who)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, inout.OrderListResp{Orders: page.Rows, TotalCount: page.TotalCount})
}

func GetOrder(c *gin.Context) {
	order, err := OrderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, order)
}

func CreateOrder(c *gin.Context) {
	var params inout.OrderCreateReq
	if !bind(c, &params) {
		return
	}
	order, err := OrderService.Create(c.Request.Context(), params)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, order)
}

// BulkCreateOrders 表格导入，缺失客户时返回名单等待确认
func BulkCreateOrders(c *gin.Context) {
	var params inout.BulkCreateOrdersReq
	if !bind(c, &params) {
		return
	}
	orders, err := ImportService.BulkCreate(c.Request.Context(), utils.GetAdminID(c), params.Orders, params.CreateMissingUsers)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, orders)
}

func CheckMissingUserNames(c *gin.Context) {
	var params inout.NamesReq
	if !bind(c, &params) {
		return
	}
	missing, err := ImportService.CheckMissingUserNames(c.Request.Context(), params.Names)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, missing)
}

// ParseOrderImport 上传 xlsx，返回解析后的行供确认
func ParseOrderImport(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, apperr.Validation("请上传文件", map[string]string{"file": "不能为空"}))
		return
	}
	if file.Size > storage.MaxFileSize {
		response.Fail(c, apperr.Validation("文件过大", map[string]string{"file": fmt.Sprintf("最大 %d MB", storage.MaxFileSize/1024/1024)}))
		return
	}
	f, err := file.Open()
	if err != nil {
		response.Fail(c, apperr.Internal("读取上传文件失败", err))
		return
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, storage.MaxFileSize+1))
	if err != nil {
		response.Fail(c, apperr.Internal("读取上传文件失败", err))
		return
	}
	result, err := ImportService.ParseUpload(c.Request.Context(), file.Filename, content)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

func UpdateOrder(c *gin.Context) {
	var params inout.OrderUpdateReq
	if !bind(c, &params) {
		return
	}
	order, err := OrderService.Update(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, order)
}

func BulkUpdateOrderStatus(c *gin.Context) {
	var params inout.BulkStatusReq
	if !bind(c, &params) {
		return
	}
	p, err := OrderService.BulkUpdateStatus(c.Request.Context(), params.IDs, params.Status)
	if err != nil {
		response.Fail(c, err)
		return
	}
	changed := len(p.ToClear) + len(p.ToStamp)
	response.Success(c, inout.MessageResp{
		Message: fmt.Sprintf("已更新 %d 个订单，%d 个订单状态未变化", changed, len(p.Unchanged)),
	})
}

func DeleteOrder(c *gin.Context) {
	var params inout.IDReq
	if !bind(c, &params) {
		return
	}
	if err := OrderService.Delete(c.Request.Context(), params.ID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}

func BulkDeleteOrders(c *gin.Context) {
	var params inout.IDsReq
	if !bind(c, &params) {
		return
	}
	n, err := OrderService.BulkDelete(c.Request.Context(), params.IDs)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, inout.DeletedResp{Deleted: n})
}

// ExportOrders 按列表条件导出 xlsx，忽略分页
func ExportOrders(c *gin.Context) {
	var params inout.ListReq
	if !bind(c, &params) {
		return
	}
	who, _ := utils.GetIdentity(c)
	buf, err := OrderService.Export(c.Request.Context(), params, who)
	if err != nil {
		response.Fail(c, err)
		return
	}
	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
