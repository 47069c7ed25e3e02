package session

import (
	// Сторонние библиотеки
	"github.com/gin-contrib/sessions" // Доступ к cookie-сессии, настроенной в main.go
	"github.com/gin-gonic/gin"
)

// Ключи данных в cookie-сессии.
const (
	tokenKey = "token"       // bearer-токен удаленного API
	flashKey = "flash_error" // одноразовое сообщение об ошибке
)

// Store - хранилище сессионного токена поверх cookie-сессии Gin.
// Токен - это непрозрачная строка, выданная удаленным API; клиент не знает
// и не проверяет срок ее действия. Отсутствие токена - нормальное состояние
// (анонимный просмотр).
//
// Store передается в обработчики явно (а не через глобальную переменную),
// чтобы в тестах его можно было подменить двойником.
type Store struct{}

// NewStore создает хранилище токена.
func NewStore() *Store {
	return &Store{}
}

// Token возвращает текущий токен или пустую строку, если пользователь не вошел.
// Значение читается непосредственно перед использованием - состояние сессии
// могло измениться между запросами.
func (s *Store) Token(c *gin.Context) string {
	sess := sessions.Default(c)
	raw := sess.Get(tokenKey)
	if raw == nil {
		return ""
	}
	token, ok := raw.(string)
	if !ok {
		// Некорректный тип в сессии - считаем, что токена нет.
		// Поврежденная cookie будет перезаписана при следующем входе.
		return ""
	}
	return token
}

// SetToken сохраняет токен в сессию. Вызывается после успешного входа
// или регистрации.
func (s *Store) SetToken(c *gin.Context, token string) error {
	sess := sessions.Default(c)
	sess.Set(tokenKey, token)
	return sess.Save()
}

// SetFlash сохраняет одноразовое сообщение об ошибке, переживающее
// один редирект (например, неудачное удаление объявления перед
// возвратом в личный кабинет).
func (s *Store) SetFlash(c *gin.Context, msg string) error {
	sess := sessions.Default(c)
	sess.Set(flashKey, msg)
	return sess.Save()
}

// PopFlash возвращает отложенное сообщение и сразу удаляет его из сессии.
// Пустая строка означает, что сообщения не было.
func (s *Store) PopFlash(c *gin.Context) string {
	sess := sessions.Default(c)
	raw := sess.Get(flashKey)
	if raw == nil {
		return ""
	}
	msg, _ := raw.(string)
	sess.Delete(flashKey)
	// Ошибку сохранения игнорируем: в худшем случае сообщение
	// появится еще раз на следующей странице.
	_ = sess.Save()
	return msg
}

// Clear удаляет токен и просит браузер избавиться от cookie
// (MaxAge в прошлом). Вызывается при выходе и при обнаружении
// недействительного токена (ответ 401 от /auth/me).
func (s *Store) Clear(c *gin.Context) error {
	sess := sessions.Default(c)
	sess.Delete(tokenKey)
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	return sess.Save()
}
