package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
	"todoTracker/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const HeaderRequestID = "X-Request-ID"

type ctxKey struct{}

// RequestID берёт id из заголовка клиента или выдаёт новый и возвращает его в ответе
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// statusRecorder запоминает первый записанный статус и объём тела
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	sent   bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.sent {
		return
	}
	rec.status = code
	rec.sent = true
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if !rec.sent {
		rec.WriteHeader(http.StatusOK)
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

func levelFor(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logging пишет одну строку на запрос после ответа; уровень зависит от статуса
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		// шаблон маршрута известен только после роутинга
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		logger.Log(levelFor(rec.status), "HTTP: Запрос обработан",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.String("path", r.URL.Path),
			zap.String("client_ip", clientIP(r)),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// Timeout ограничивает контекст запроса; хранилище прерывает запрос по ctx
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				logger.Warn("HTTP: Таймаут запроса",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("path", r.URL.Path),
					zap.Duration("timeout", timeout))
			}
		})
	}
}

type window struct {
	count   int
	resetAt time.Time
}

// limiter - фиксированное окно на IP; просроченные окна вычищаются раз в окно
type limiter struct {
	mtx       sync.Mutex
	limit     int
	period    time.Duration
	now       func() time.Time
	clients   map[string]*window
	nextSweep time.Time
}

func newLimiter(limit int, period time.Duration, now func() time.Time) *limiter {
	return &limiter{
		limit:   limit,
		period:  period,
		now:     now,
		clients: make(map[string]*window),
	}
}

// allow учитывает запрос и возвращает остаток и конец текущего окна
func (l *limiter) allow(ip string) (remaining int, resetAt time.Time, ok bool) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	now := l.now()
	l.sweep(now)

	win, found := l.clients[ip]
	if !found || !now.Before(win.resetAt) {
		win = &window{resetAt: now.Add(l.period)}
		l.clients[ip] = win
	}
	if win.count >= l.limit {
		return 0, win.resetAt, false
	}
	win.count++
	return l.limit - win.count, win.resetAt, true
}

func (l *limiter) sweep(now time.Time) {
	if now.Before(l.nextSweep) {
		return
	}
	for ip, win := range l.clients {
		if !now.Before(win.resetAt) {
			delete(l.clients, ip)
		}
	}
	l.nextSweep = now.Add(l.period)
}

// RateLimit - лимит запросов в минуту на IP; rpm <= 0 отключает лимит
func RateLimit(rpm int) func(http.Handler) http.Handler {
	return rateLimit(newLimiter(rpm, time.Minute, time.Now))
}

func rateLimit(l *limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l.limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, resetAt, ok := l.allow(clientIP(r))

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !ok {
				retryAfter := int(resetAt.Sub(l.now()).Round(time.Second).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				h.Set("Retry-After", strconv.Itoa(retryAfter))
				logger.Warn("HTTP: Превышен лимит запросов",
					zap.String("client_ip", clientIP(r)),
					zap.String("request_id", GetRequestID(r.Context())))

				// тело в том же виде, что и ошибки обработчиков
				h.Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
