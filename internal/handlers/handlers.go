package handlers

import (
	// Стандартные библиотеки
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"

	// Внутренние пакеты
	"kittenfind/internal/api"
	"kittenfind/internal/models"
	"kittenfind/internal/services"
	"kittenfind/internal/session"

	// Сторонние библиотеки
	"github.com/gin-gonic/gin"
)

// Константы для ограничений загрузки
const MaxUploadSize = 10 << 20 // 10 МБ на файл

// Handlers - обработчики всех страниц приложения.
// Зависимости (шлюз API и хранилище сессии) передаются явно,
// чтобы в тестах их можно было подменить тестовым сервером и двойником.
type Handlers struct {
	api       *api.Client
	sess      *session.Store
	assetBase string // Origin удаленного сервера для ссылок на фотографии
}

// New создает набор обработчиков.
// assetBase - это origin API без суффикса /api: фотографии приходят
// серверно-относительными путями вида "/uploads/abc.jpg".
func New(client *api.Client, store *session.Store, assetBase string) *Handlers {
	return &Handlers{
		api:       client,
		sess:      store,
		assetBase: strings.TrimRight(assetBase, "/"),
	}
}

// catCard - объявление, подготовленное к отрисовке в сетке:
// сама модель плюс абсолютный URL первой фотографии.
type catCard struct {
	models.Cat
	PhotoURL string
}

// photoURL превращает серверную ссылку на фотографию в абсолютный URL.
// Абсолютные ссылки (http...) проходят без изменений.
func (h *Handlers) photoURL(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return h.assetBase + ref
}

// cards строит карточки для сетки объявлений.
func (h *Handlers) cards(cats []models.Cat) []catCard {
	out := make([]catCard, 0, len(cats))
	for _, cat := range cats {
		card := catCard{Cat: cat}
		if len(cat.Photos) > 0 {
			card.PhotoURL = h.photoURL(cat.Photos[0])
		}
		out = append(out, card)
	}
	return out
}

// ShowHome отображает главную страницу: сетку объявлений с фильтрами.
// Коллекция и (при наличии токена) текущий пользователь запрашиваются
// параллельно. Неудача запроса пользователя НЕ считается ошибкой страницы -
// пользователь просто отображается как анонимный. Ошибкой страницы
// является только неудача запроса коллекции.
func (h *Handlers) ShowHome(c *gin.Context) {
	ctx := c.Request.Context()
	token := h.sess.Token(c)

	var (
		wg      sync.WaitGroup
		cats    []models.Cat
		catsErr error
		user    *models.User
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		cats, catsErr = h.api.ListCats(ctx)
	}()

	if token != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := h.api.Me(ctx, token)
			if err != nil {
				// Необязательный запрос: логируем и продолжаем без пользователя.
				log.Printf("Не удалось получить текущего пользователя для главной: %v", err)
				return
			}
			user = u
		}()
	}

	// Обе горутины пишут в разные переменные - гонки нет.
	wg.Wait()

	var errorMsg string
	if catsErr != nil {
		log.Printf("Ошибка загрузки коллекции объявлений: %v", catsErr)
		errorMsg = "Не удалось загрузить объявления. Попробуйте обновить страницу."
	}

	// Предикаты приходят в query-параметрах; фильтрация чистая -
	// исходная коллекция не изменяется.
	filter := services.Filter{
		Search:   strings.TrimSpace(c.Query("q")),
		Location: c.Query("location"),
		Age:      c.Query("age"),
	}
	filtered := services.FilterCats(cats, filter)

	c.HTML(http.StatusOK, "home.html", gin.H{
		"title":         "Найденные коты",
		"cats":          h.cards(filtered),
		"totalCount":    len(cats),
		"filter":        filter,
		"filterActive":  filter.Active(),
		"locations":     services.UniqueLocations(cats),
		"ageCategories": models.AgeCategories,
		"user":          user,
		"loggedIn":      token != "",
		"error":         errorMsg,
	})
}

// ShowCatDetail отображает карточку одного объявления.
// Кнопка связи через WhatsApp доступна только когда у владельца
// объявления указан телефон.
func (h *Handlers) ShowCatDetail(c *gin.Context) {
	id := c.Param("id")
	cat, err := h.api.GetCat(c.Request.Context(), id)
	if err != nil {
		log.Printf("Ошибка загрузки объявления %s: %v", id, err)
		status := http.StatusInternalServerError
		message := "Не удалось загрузить объявление. Попробуйте позже."
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
			message = "Объявление не найдено или было удалено."
		}
		c.HTML(status, "error.html", gin.H{
			"title":   "Ошибка",
			"message": message,
		})
		return
	}

	photoURLs := make([]string, 0, len(cat.Photos))
	for _, ref := range cat.Photos {
		photoURLs = append(photoURLs, h.photoURL(ref))
	}

	// Ссылка в WhatsApp с шаблонным сообщением из имени и описания.
	whatsappURL := ""
	if cat.HasContactPhone() {
		msg := fmt.Sprintf("Interested in %s: %s", cat.Name, cat.Description)
		whatsappURL = "https://wa.me/" + cat.User.Phone + "?text=" + url.QueryEscape(msg)
	}

	c.HTML(http.StatusOK, "cat_detail.html", gin.H{
		"title":       cat.Name,
		"cat":         cat,
		"photoURLs":   photoURLs,
		"whatsappURL": whatsappURL,
		"loggedIn":    h.sess.Token(c) != "",
	})
}

// RedirectHome - обработчик для всех несуществующих маршрутов.
func (h *Handlers) RedirectHome(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
}
