package admin

import (
	"order-admin/inout"
	"order-admin/pkg/response"
	"order-admin/utils"

	"github.com/gin-gonic/gin"
)

func GetTransactionList(c *gin.Context) {
	var params inout.ListReq
	if !bind(c, &params) {
		return
	}
	page, err := TransactionService.List(c.Request.Context(), utils.GetAdminID(c), params)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, inout.TransactionListResp{Transactions: page.Rows, TotalCount: page.TotalCount})
}

func CreateTransaction(c *gin.Context) {
	var params inout.TransactionCreateReq
	if !bind(c, &params) {
		return
	}
	row, err := TransactionService.Create(c.Request.Context(), utils.GetAdminID(c), params)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, row)
}

func UpdateTransaction(c *gin.Context) {
	var params inout.TransactionUpdateReq
	if !bind(c, &params) {
		return
	}
	row, err := TransactionService.Update(c.Request.Context(), utils.GetAdminID(c), c.Param("id"), params)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, row)
}

func DeleteTransaction(c *gin.Context) {
	var params inout.IDReq
	if !bind(c, &params) {
		return
	}
	if err := TransactionService.Delete(c.Request.Context(), utils.GetAdminID(c), params.ID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}
