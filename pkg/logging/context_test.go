package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWithContextFields(t *testing.T) {
	ctx := WithContextFields(context.Background(), zap.String("path", "/pedidos/"))
	ctx = WithContextFields(ctx, zap.String("profile", "abc"))

	fields := fieldsFromContext(ctx)
	assert.Len(t, fields, 2)
	assert.Equal(t, "path", fields[0].Key)
	assert.Equal(t, "profile", fields[1].Key)
}

func TestWithContextFields_DoesNotLeakIntoParent(t *testing.T) {
	parent := WithContextFields(context.Background(), zap.String("a", "1"))
	_ = WithContextFields(parent, zap.String("b", "2"))

	assert.Len(t, fieldsFromContext(parent), 1)
}

func TestFieldsFromContext_Empty(t *testing.T) {
	assert.Nil(t, fieldsFromContext(context.Background()))
}
