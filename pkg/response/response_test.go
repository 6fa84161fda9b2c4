package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Abort(c, http.StatusNotFound, ErrPostNotFound, "Post not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, c.IsAborted())
	assert.JSONEq(t, `{"code":20001,"message":"Post not found","data":null}`, w.Body.String())
}

func TestOKIsBare(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, http.StatusCreated, gin.H{"post": gin.H{"_id": "P1"}})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"post":{"_id":"P1"}}`, w.Body.String())
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, "ok")

	assert.JSONEq(t, `{"code":0,"message":"success","data":"ok"}`, w.Body.String())
}
