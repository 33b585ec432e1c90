package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/litdrill/internal/chat"
	"github.com/lshigami/litdrill/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	got []chat.Inbound
	out []chat.Outbound
	err error
}

func (f *fakeHandler) Handle(_ context.Context, in chat.Inbound) ([]chat.Outbound, error) {
	f.got = append(f.got, in)
	return f.out, f.err
}

func newRouter(h UpdateHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/updates", NewUpdateController(h, "start", "tasks").HandleUpdate)
	return r
}

func post(t *testing.T, r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/updates", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleUpdateReturnsReplies(t *testing.T) {
	h := &fakeHandler{out: []chat.Outbound{chat.Message(1, "hi")}}
	w := post(t, newRouter(h), dto.UpdateRequest{ChatID: 1, Kind: "text", Text: "hello"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.UpdateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Replies, 1)
	assert.Equal(t, "hi", resp.Replies[0].Text)
	require.Len(t, h.got, 1)
	assert.Equal(t, chat.EventText, h.got[0].Kind)
}

func TestHandleUpdateSplitsSlashCommands(t *testing.T) {
	h := &fakeHandler{}
	w := post(t, newRouter(h), dto.UpdateRequest{ChatID: 1, Kind: "text", Text: "/Start@litdrill_bot ref"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"replies":[]}`, w.Body.String())
	require.Len(t, h.got, 1)
	assert.Equal(t, chat.EventCommand, h.got[0].Kind)
	assert.Equal(t, "start", h.got[0].Command)
}

func TestHandleUpdateKeepsUnknownSlashText(t *testing.T) {
	h := &fakeHandler{}
	w := post(t, newRouter(h), dto.UpdateRequest{ChatID: 1, Kind: "text", Text: "/146"})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, h.got, 1)
	assert.Equal(t, chat.EventText, h.got[0].Kind)
	assert.Equal(t, "/146", h.got[0].Text)
	assert.Empty(t, h.got[0].Command)
}

func TestHandleUpdateErrors(t *testing.T) {
	h := &fakeHandler{err: errors.New("db down")}
	r := newRouter(h)

	w := post(t, r, map[string]interface{}{"chat_id": 1, "kind": "sticker"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, h.got)

	w = post(t, r, dto.UpdateRequest{ChatID: 1, Kind: "text", Text: "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNormalizeCommand(t *testing.T) {
	assert.Equal(t, "tasks", normalizeCommand("/tasks"))
	assert.Equal(t, "start", normalizeCommand(" /START@bot payload"))
	assert.Equal(t, "start", normalizeCommand("start"))
}
