package middleware

import (
	// Стандартные библиотеки
	"log"
	"net/http"
	"time"

	// Внутренние пакеты
	"kittenfind/internal/session"

	// Сторонние библиотеки
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthRequired - Gin middleware, охраняющее маршруты, требующие входа.
// Проверяется только НАЛИЧИЕ токена в сессии, не его действительность:
// просроченный токен пройдет охрану и провалится позже, на границе API
// (единственное место, где 401 реально обрабатывается - личный кабинет).
// Проверка выполняется заново при каждом обращении к охраняемому маршруту.
func AuthRequired(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store.Token(c) == "" {
			// Токена нет - пользователь не вошел. Перенаправляем на страницу
			// входа вместо отрисовки защищенного содержимого.
			log.Printf("Доступ запрещен (нет токена) к %s с IP %s", c.Request.URL.Path, c.ClientIP())
			c.Redirect(http.StatusFound, "/login")
			// Прерываем цепочку, чтобы следующие обработчики не выполнились.
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestID присваивает каждому запросу уникальный идентификатор
// и пишет итоговую строку лога: метод, путь, статус, длительность.
// По идентификатору можно связать строки, относящиеся к одному запросу.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("requestID", id)
		c.Writer.Header().Set("X-Request-ID", id)

		start := time.Now()
		c.Next()
		log.Printf("[%s] %s %s -> %d (%s)",
			id, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
