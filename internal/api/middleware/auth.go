package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/venuegrid/VG-ReservationEngine/internal/api/handlers"
)

type userIDKey struct{}

const userIDHeader = "X-User-ID"

// Auth извлекает идентификатор вызывающего из заголовка X-User-ID
// и кладет его в контекст запроса. Аутентификацию выполняет внешний
// шлюз, сюда приходит уже проверенный идентификатор
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(userIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок X-User-ID")
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный заголовок X-User-ID")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает идентификатор вызывающего из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int64)
	return userID, ok
}
