package notify

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPop(t *testing.T) {
	rec := httptest.NewRecorder()
	Set(rec, Message{Text: "Pedido criado com sucesso!", Severity: Success})

	req := httptest.NewRequest(http.MethodGet, "/pedidos/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	popRec := httptest.NewRecorder()
	msg, ok := Pop(popRec, req)
	require.True(t, ok)
	assert.Equal(t, "Pedido criado com sucesso!", msg.Text)
	assert.Equal(t, Success, msg.Severity)

	cleared := popRec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestPop_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{name: "no cookie"},
		{name: "not base64", cookie: &http.Cookie{Name: cookieName, Value: "%%%"}},
		{name: "not json", cookie: &http.Cookie{Name: cookieName, Value: "bm90IGpzb24"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if test.cookie != nil {
				req.AddCookie(test.cookie)
			}
			msg, ok := Pop(httptest.NewRecorder(), req)
			assert.False(t, ok)
			assert.Nil(t, msg)
		})
	}
}
