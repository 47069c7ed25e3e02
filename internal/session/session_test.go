package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// newRouter собирает маршрутизатор со служебными ручками вокруг Store,
// чтобы проверять жизненный цикл токена через настоящие cookie.
func newRouter(store *Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))

	r.GET("/token", func(c *gin.Context) {
		c.String(http.StatusOK, store.Token(c))
	})
	r.POST("/token", func(c *gin.Context) {
		if err := store.SetToken(c, c.Query("v")); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.POST("/clear", func(c *gin.Context) {
		if err := store.Clear(c); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.POST("/flash", func(c *gin.Context) {
		_ = store.SetFlash(c, c.Query("v"))
		c.Status(http.StatusNoContent)
	})
	r.GET("/flash", func(c *gin.Context) {
		c.String(http.StatusOK, store.PopFlash(c))
	})
	return r
}

func do(r *gin.Engine, method, target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestTokenLifecycle(t *testing.T) {
	store := NewStore()
	r := newRouter(store)

	// Без cookie токена нет - анонимное состояние допустимо.
	if body := do(r, http.MethodGet, "/token", nil).Body.String(); body != "" {
		t.Fatalf("токен до входа = %q, ожидался пустой", body)
	}

	// Сохраняем токен, получаем cookie.
	setRR := do(r, http.MethodPost, "/token?v=tok-42", nil)
	cookies := setRR.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("ожидалась сессионная cookie")
	}

	// Токен читается обратно с той же cookie.
	if body := do(r, http.MethodGet, "/token", cookies).Body.String(); body != "tok-42" {
		t.Fatalf("токен = %q, ожидался tok-42", body)
	}

	// Clear удаляет токен и гасит cookie.
	clearRR := do(r, http.MethodPost, "/clear", cookies)
	expired := clearRR.Result().Cookies()
	if len(expired) == 0 || expired[0].MaxAge != -1 {
		t.Fatal("после Clear ожидалась cookie с MaxAge=-1")
	}
}

func TestFlashIsOneShot(t *testing.T) {
	store := NewStore()
	r := newRouter(store)

	setRR := do(r, http.MethodPost, "/flash?v=не+удалилось", nil)
	cookies := setRR.Result().Cookies()

	first := do(r, http.MethodGet, "/flash", cookies)
	if first.Body.String() == "" {
		t.Fatal("ожидалось flash-сообщение при первом чтении")
	}

	// Повторное чтение - уже с обновленной cookie - пусто.
	second := do(r, http.MethodGet, "/flash", first.Result().Cookies())
	if second.Body.String() != "" {
		t.Fatalf("flash при повторном чтении = %q, ожидался пустой", second.Body.String())
	}
}
