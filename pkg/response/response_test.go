package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"order-admin/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failWith(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.ReleaseMode)
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/admin/orders/create/bulk", nil)
	Fail(c, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestFailValidation(t *testing.T) {
	w, body := failWith(t, apperr.Validation("请求参数错误", map[string]string{"rows[0].orderDate": "日期格式错误"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, INVALID_PARAMS, body["code"])
	assert.Equal(t, false, body["success"])
	assert.Equal(t, map[string]interface{}{"rows[0].orderDate": "日期格式错误"}, body["errors"])
}

func TestFailReferenceUnresolved(t *testing.T) {
	w, body := failWith(t, apperr.ReferenceUnresolved(apperr.RefUser, []string{"Bob", "Carol"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, REFERENCE_UNRESOLVED, body["code"])
	assert.Equal(t, map[string]interface{}{
		"kind":    "user",
		"missing": []interface{}{"Bob", "Carol"},
	}, body["errors"])
}

func TestFailHidesInternalDetails(t *testing.T) {
	w, body := failWith(t, errors.New("dial tcp 10.0.0.3:3306: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, redactedInternalMessage, body["message"])
}

func TestFailStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperr.NotFound("订单不存在"), http.StatusNotFound},
		{apperr.Conflict("名称已存在", nil), http.StatusConflict},
		{apperr.Unauthorized("请先登录"), http.StatusUnauthorized},
		{apperr.Forbidden("无权限"), http.StatusForbidden},
		{apperr.BatchFailure("批量导入失败", errors.New("constraint")), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		w, body := failWith(t, tt.err)
		assert.Equal(t, tt.status, w.Code, tt.err.Error())
		e, _ := apperr.As(tt.err)
		assert.EqualValues(t, apperr.Code(e.Kind), body["code"])
	}
}
