package admin

import (
	"order-admin/inout"
	"order-admin/pkg/response"

	"github.com/gin-gonic/gin"
)

func GetUserList(c *gin.Context) {
	var params inout.ListReq
	if !bind(c, &params) {
		return
	}
	page, err := UserService.List(c.Request.Context(), params)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, inout.UserListResp{Users: page.Rows, TotalCount: page.TotalCount})
}

func CreateUser(c *gin.Context) {
	var params inout.UserCreateReq
	if !bind(c, &params) {
		return
	}
	user, err := UserService.Create(c.Request.Context(), params)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, user)
}

// BulkCreateUsers 导入确认后按名称批量创建客户
func BulkCreateUsers(c *gin.Context) {
	var params inout.NamesReq
	if !bind(c, &params) {
		return
	}
	users, err := UserService.BulkCreate(c.Request.Context(), params.Names)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, users)
}

func UpdateUser(c *gin.Context) {
	var params inout.UserUpdateReq
	if !bind(c, &params) {
		return
	}
	user, err := UserService.Update(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, user)
}

func DeleteUser(c *gin.Context) {
	var params inout.IDReq
	if !bind(c, &params) {
		return
	}
	if err := UserService.Delete(c.Request.Context(), params.ID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, nil)
}
