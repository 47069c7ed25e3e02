package handlers

import (
	// Стандартные библиотеки
	"log"
	"net/http"
	"strings"

	// Внутренние пакеты
	"kittenfind/internal/api"
	"kittenfind/internal/models"

	// Сторонние библиотеки
	"github.com/gin-gonic/gin"
)

// Формы входа и регистрации. Валидация объявлена тегами binding -
// ее выполняет валидатор Gin при ShouldBind.
type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

type registerForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=8"`
	Name     string `form:"name" binding:"required"`
	Phone    string `form:"phone" binding:"required"`
	Location string `form:"location" binding:"required"`
}

// ShowLoginPage отображает страницу входа.
func (h *Handlers) ShowLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"title": "Вход",
	})
}

// ShowRegisterPage отображает страницу регистрации.
func (h *Handlers) ShowRegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"title":     "Регистрация",
		"locations": models.DefaultLocations,
	})
}

// HandleLogin обрабатывает POST-запрос с формы входа.
// При ошибках рендерит login.html с сообщением, при успехе сохраняет
// токен в сессию и редиректит на главную.
func (h *Handlers) HandleLogin(c *gin.Context) {
	var form loginForm

	// Функция для рендеринга страницы входа с ошибкой
	renderLoginWithError := func(status int, message string) {
		c.HTML(status, "login.html", gin.H{
			"title": "Вход",
			"error": message,
			"email": form.Email, // Введенный email возвращаем в форму
		})
	}

	if err := c.ShouldBind(&form); err != nil {
		renderLoginWithError(http.StatusBadRequest, "Укажите корректный email и пароль.")
		return
	}

	token, err := h.api.Login(c.Request.Context(), api.LoginRequest{
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
	})
	if err != nil {
		log.Printf("Неудачная попытка входа для %s: %v", form.Email, err)
		if api.IsUnauthorized(err) {
			renderLoginWithError(http.StatusUnauthorized, "Неверный email или пароль.")
			return
		}
		renderLoginWithError(http.StatusBadGateway,
			api.ServerMessage(err, "Не удалось войти. Попробуйте позже."))
		return
	}

	// Токен получен - сохраняем его в cookie-сессию.
	if err := h.sess.SetToken(c, token); err != nil {
		log.Printf("Ошибка сохранения сессии после входа %s: %v", form.Email, err)
		renderLoginWithError(http.StatusInternalServerError, "Не удалось сохранить данные сессии.")
		return
	}

	log.Printf("Пользователь %s успешно вошел.", form.Email)
	c.Redirect(http.StatusFound, "/")
}

// HandleRegister обрабатывает POST-запрос с формы регистрации.
// Удаленный API при успехе сразу выдает токен, так что новый пользователь
// оказывается вошедшим без отдельного шага входа.
func (h *Handlers) HandleRegister(c *gin.Context) {
	var form registerForm

	// Функция для рендеринга страницы регистрации с ошибкой.
	// Введенные значения возвращаются в форму.
	renderRegisterWithError := func(status int, message string) {
		c.HTML(status, "register.html", gin.H{
			"title":     "Регистрация",
			"error":     message,
			"locations": models.DefaultLocations,
			"form":      form,
		})
	}

	if err := c.ShouldBind(&form); err != nil {
		renderRegisterWithError(http.StatusBadRequest,
			"Все поля обязательны; email должен быть корректным, пароль - не короче 8 символов.")
		return
	}

	token, err := h.api.Register(c.Request.Context(), api.RegisterRequest{
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
		Name:     strings.TrimSpace(form.Name),
		Phone:    strings.TrimSpace(form.Phone),
		Location: form.Location,
	})
	if err != nil {
		log.Printf("Ошибка регистрации %s: %v", form.Email, err)
		renderRegisterWithError(http.StatusBadGateway,
			api.ServerMessage(err, "Не удалось зарегистрироваться. Попробуйте позже."))
		return
	}

	if err := h.sess.SetToken(c, token); err != nil {
		log.Printf("Ошибка сохранения сессии после регистрации %s: %v", form.Email, err)
		renderRegisterWithError(http.StatusInternalServerError, "Не удалось сохранить данные сессии.")
		return
	}

	log.Printf("Пользователь %s успешно зарегистрирован.", form.Email)
	c.Redirect(http.StatusFound, "/")
}

// HandleLogout очищает сессию и возвращает на главную.
func (h *Handlers) HandleLogout(c *gin.Context) {
	if err := h.sess.Clear(c); err != nil {
		log.Printf("Ошибка очистки сессии при выходе: %v", err)
	} else {
		log.Printf("Пользователь вышел из системы.")
	}
	c.Redirect(http.StatusFound, "/")
}
