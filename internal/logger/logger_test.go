package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitLogger(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		if err := InitLogger(&LogConfig{Level: "debug", Environment: env, ServiceName: "navkit"}); err != nil {
			t.Fatalf("InitLogger(%s) 실패: %v", env, err)
		}
		if GetLogger() == nil {
			t.Fatal("GetLogger() = nil")
		}
		if !GetLogger().Core().Enabled(zapcore.DebugLevel) {
			t.Error("debug 레벨이 활성화되지 않음")
		}
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) != GetLogger() {
		t.Error("빈 컨텍스트는 전역 로거를 반환해야 함")
	}

	l := zap.NewNop().With(zap.String("k", "v"))
	if FromContext(WithContext(context.Background(), l)) != l {
		t.Error("컨텍스트 로거가 반환되지 않음")
	}
}

func TestMiddleware(t *testing.T) {
	var sawLogger bool
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawLogger = r.Context().Value(ctxKey{}).(*zap.Logger)
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
	if !sawLogger {
		t.Error("핸들러에 요청 로거가 전달되지 않음")
	}
}
