package admin

import (
	"context"

	"order-admin/inout"
	"order-admin/model/admin_model"
	"order-admin/pkg/query"
	"order-admin/pkg/response"

	"github.com/gin-gonic/gin"
)

// catalog 货源和集运仓共用的处理函数
type catalog[T any, PT any] interface {
	List(ctx context.Context, req query.Request) (query.Page[T], error)
	Create(ctx context.Context, in inout.NamedCreateReq) (PT, error)
	Update(ctx context.Context, id string, in inout.NamedUpdateReq) (PT, error)
	Delete(ctx context.Context, id string) error
}

type catalogHandlers struct {
	List   gin.HandlerFunc
	Create gin.HandlerFunc
	Update gin.HandlerFunc
	Delete gin.HandlerFunc
}

func catalogRoutes[T any, PT any](svc func() catalog[T, PT]) catalogHandlers {
	return catalogHandlers{
		List: func(c *gin.Context) {
			var params inout.ListReq
			if !bind(c, &params) {
				return
			}
			page, err := svc().List(c.Request.Context(), params)
			if err != nil {
				response.Fail(c, err)
				return
			}
			response.Success(c, inout.NamedListResp{Items: page.Rows, TotalCount: page.TotalCount})
		},
		Create: func(c *gin.Context) {
			var params inout.NamedCreateReq
			if !bind(c, &params) {
				return
			}
			row, err := svc().Create(c.Request.Context(), params)
			if err != nil {
				response.Fail(c, err)
				return
			}
			response.Success(c, row)
		},
		Update: func(c *gin.Context) {
			var params inout.NamedUpdateReq
			if !bind(c, &params) {
				return
			}
			row, err := svc().Update(c.Request.Context(), c.Param("id"), params)
			if err != nil {
				response.Fail(c, err)
				return
			}
			response.Success(c, row)
		},
		Delete: func(c *gin.Context) {
			var params inout.IDReq
			if !bind(c, &params) {
				return
			}
			if err := svc().Delete(c.Request.Context(), params.ID); err != nil {
				response.Fail(c, err)
				return
			}
			response.Success(c, nil)
		},
	}
}

// 服务在 Setup 之后才可用，这里延迟取值
var (
	Sources = catalogRoutes(func() catalog[admin_model.Source, *admin_model.Source] { return SourceService })

	ShippingStores = catalogRoutes(func() catalog[admin_model.ShippingStore, *admin_model.ShippingStore] {
		return ShippingStoreService
	})
)
