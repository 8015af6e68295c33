package util

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codestep_backend/internal/model"

	"github.com/gin-gonic/gin"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "a@b.c", Role: model.Student}
	user.ID = 42

	token, err := GenerateJWT(user, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	claims, err := ParseJWT(token, "secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "a@b.c" {
		t.Fatalf("claims: got=%+v", claims)
	}
	if _, err := ParseJWT(token, "other"); err == nil {
		t.Fatalf("wrong secret should fail")
	}
}

func TestResponseEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	NotFoundWithMessage(c, "missing")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status: want=%d got=%d", http.StatusNotFound, w.Code)
	}
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != http.StatusNotFound || resp.Message != "missing" {
		t.Fatalf("envelope: got=%+v", resp)
	}
}

func TestValidateMimeType(t *testing.T) {
	if _, err := ValidateMimeType([]byte("# 标题\n正文"), AllowedContentTypes); err != nil {
		t.Fatalf("markdown text rejected: %v", err)
	}
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if _, err := ValidateMimeType(png, AllowedContentTypes); err == nil {
		t.Fatalf("binary content should be rejected")
	}
}

func TestQueryInt(t *testing.T) {
	if QueryInt("7", 5) != 7 || QueryInt("x", 5) != 5 || QueryInt("-1", 5) != 5 {
		t.Fatalf("QueryInt mismatch")
	}
}
