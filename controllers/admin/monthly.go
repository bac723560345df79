package admin

import (
	"order-admin/inout"
	"order-admin/pkg/response"
	"order-admin/utils"

	"github.com/gin-gonic/gin"
)

func CreateOperationalCost(c *gin.Context) {
	var params inout.OperationalCostCreateReq
	if !bind(c, &params) {
		return
	}
	cost, err := OperationalCostService.Save(c.Request.Context(), utils.GetAdminID(c), params)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, cost)
}

// GetOperationalCostByDate 当月没有记录时 data 为 null
func GetOperationalCostByDate(c *gin.Context) {
	var params inout.DateTimeReq
	if !bind(c, &params) {
		return
	}
	cost, err := OperationalCostService.Get(c.Request.Context(), utils.GetAdminID(c), params.DateTime)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if cost == nil {
		response.Success(c, nil)
		return
	}
	response.Success(c, cost)
}

func CreateTransactionBalance(c *gin.Context) {
	var params inout.TransactionBalanceCreateReq
	if !bind(c, &params) {
		return
	}
	balance, err := TransactionBalanceService.Save(c.Request.Context(), utils.GetAdminID(c), params)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, inout.NewTransactionBalanceResp(balance))
}

func GetTransactionBalanceByDate(c *gin.Context) {
	var params inout.DateTimeReq
	if !bind(c, &params) {
		return
	}
	balance, err := TransactionBalanceService.Get(c.Request.Context(), utils.GetAdminID(c), params.DateTime)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if balance == nil {
		response.Success(c, nil)
		return
	}
	response.Success(c, inout.NewTransactionBalanceResp(balance))
}
