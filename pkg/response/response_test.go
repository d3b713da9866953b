package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestOKPage_TotalPages(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OKPage(c, []int{1, 2}, 41, 1, 20)

	var resp struct {
		Data PageData `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Data.Pagination.TotalPages != 3 {
		t.Errorf("期望 3 页, 实际 %d", resp.Data.Pagination.TotalPages)
	}
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	TooManyRequests(c, "slow down", 60)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("期望 429, 实际 %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After 期望 60, 实际 %q", got)
	}
}

func TestAttachment(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Attachment(c, "课表.ics", "text/calendar", []byte("BEGIN:VCALENDAR"))

	cd := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment; filename*=UTF-8''") {
		t.Errorf("Content-Disposition 格式错误: %s", cd)
	}
	if strings.Contains(cd, "课表") {
		t.Error("文件名应被转义")
	}
	if w.Body.String() != "BEGIN:VCALENDAR" {
		t.Errorf("响应体不符: %s", w.Body.String())
	}
}
