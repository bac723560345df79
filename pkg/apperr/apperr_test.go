package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsThroughWrapping(t *testing.T) {
	base := ReferenceUnresolved(RefSource, []string{"Taobao"})
	wrapped := fmt.Errorf("import: %w", base)

	e, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindReferenceUnresolved, e.Kind)
	assert.Equal(t, []string{"Taobao"}, e.Missing)
	assert.Contains(t, e.Message, "货源")

	assert.True(t, Is(wrapped, KindReferenceUnresolved))
	assert.False(t, Is(errors.New("plain"), KindReferenceUnresolved))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("deadlock")
	err := BatchFailure("批量导入失败", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "批量导入失败: deadlock", err.Error())
}

func TestInvalidFilterColumn(t *testing.T) {
	err := InvalidFilterColumn("password")
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "password", err.Fields["column"])
	assert.Equal(t, CodeInvalidParams, Code(err.Kind))
}
