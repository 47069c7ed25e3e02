package handlers

import (
	// Стандартные библиотеки
	"log"
	"net/http"
	"strings"

	// Внутренние пакеты
	"kittenfind/internal/api"
	"kittenfind/internal/models"
	"kittenfind/internal/services"

	// Сторонние библиотеки
	"github.com/gin-gonic/gin"
)

// ShowDashboard отображает личный кабинет: объявления текущего пользователя.
// Это единственное место, где недействительный токен реально обнаруживается:
// ответ 401 на /auth/me означает, что сессия устарела - очищаем ее и
// отправляем пользователя на страницу входа, НЕ отрисовывая список.
func (h *Handlers) ShowDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	token := h.sess.Token(c)

	me, err := h.api.Me(ctx, token)
	if err != nil {
		if api.IsUnauthorized(err) {
			log.Printf("Токен отклонен сервером (401), сессия очищается.")
			if clearErr := h.sess.Clear(c); clearErr != nil {
				log.Printf("Ошибка очистки сессии после 401: %v", clearErr)
			}
			c.Redirect(http.StatusFound, "/login")
			return
		}
		// Любая другая ошибка не фатальна: показываем кабинет
		// с панелью ошибки и без списка.
		log.Printf("Ошибка загрузки текущего пользователя для кабинета: %v", err)
		c.HTML(http.StatusOK, "dashboard.html", gin.H{
			"title":    "Личный кабинет",
			"loggedIn": true,
			"error":    "Не удалось загрузить данные пользователя. Попробуйте обновить страницу.",
		})
		return
	}

	var (
		owned    []catCard
		errorMsg string
	)
	cats, err := h.api.ListCats(ctx)
	if err != nil {
		log.Printf("Ошибка загрузки коллекции для кабинета (userID %s): %v", me.ID, err)
		errorMsg = "Не удалось загрузить список объявлений."
	} else {
		// Только объявления, принадлежащие текущему пользователю;
		// записи без владельца исключаются.
		owned = h.cards(services.OwnedBy(cats, me.ID))
	}

	// Отложенное сообщение после редиректа (например, неудачное удаление).
	if flash := h.sess.PopFlash(c); flash != "" && errorMsg == "" {
		errorMsg = flash
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"title":    "Личный кабинет",
		"user":     me,
		"cats":     owned,
		"loggedIn": true,
		"error":    errorMsg,
	})
}

// HandleDelete удаляет объявление после подтверждения в браузере
// (confirm() на форме). Кабинет всегда перерисовывается заново со свежей
// выборкой, поэтому откат при неудачном удалении не нужен: запись просто
// снова окажется в списке, а причина - в сообщении об ошибке.
func (h *Handlers) HandleDelete(c *gin.Context) {
	id := c.Param("id")
	token := h.sess.Token(c)

	if err := h.api.DeleteCat(c.Request.Context(), token, id); err != nil {
		log.Printf("Ошибка удаления объявления %s: %v", id, err)
		msg := api.ServerMessage(err, "Не удалось удалить объявление.")
		if flashErr := h.sess.SetFlash(c, msg); flashErr != nil {
			log.Printf("Ошибка сохранения flash-сообщения: %v", flashErr)
		}
	} else {
		log.Printf("Объявление %s удалено.", id)
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// catFormView - данные формы подачи объявления для шаблона.
// Используется и для пустой формы создания, и для предзаполненной
// формы редактирования, и для повторной отрисовки после ошибки.
type catFormView struct {
	ID          string // Пустой = режим создания
	Name        string
	Age         string
	Gender      string
	Location    string
	Description string
	Photos      []string // Сохраненные серверные ссылки
}

// EditMode сообщает шаблону режим формы.
func (v catFormView) EditMode() bool { return v.ID != "" }

// renderCatForm отрисовывает форму с опциональным сообщением об ошибке.
func (h *Handlers) renderCatForm(c *gin.Context, status int, view catFormView, errorMsg string) {
	title := "Сообщить о найденном коте"
	if view.EditMode() {
		title = "Редактировать объявление"
	}
	photoURLs := make([]string, 0, len(view.Photos))
	for _, ref := range view.Photos {
		photoURLs = append(photoURLs, h.photoURL(ref))
	}
	c.HTML(status, "cat_form.html", gin.H{
		"title":         title,
		"form":          view,
		"photoURLs":     photoURLs,
		"ageCategories": models.AgeCategories,
		"genders":       models.Genders,
		"locations":     models.DefaultLocations,
		"maxPhotos":     services.MaxPhotos,
		"loggedIn":      true,
		"error":         errorMsg,
	})
}

// ShowCreateForm отображает пустую форму создания объявления.
// Локация по умолчанию - первая из предлагаемого списка.
func (h *Handlers) ShowCreateForm(c *gin.Context) {
	h.renderCatForm(c, http.StatusOK, catFormView{
		Location: models.DefaultLocations[0],
	}, "")
}

// ShowEditForm отображает форму, предзаполненную данными объявления.
func (h *Handlers) ShowEditForm(c *gin.Context) {
	id := c.Param("id")
	cat, err := h.api.GetCat(c.Request.Context(), id)
	if err != nil {
		log.Printf("Ошибка загрузки объявления %s для редактирования: %v", id, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"title":   "Ошибка",
			"message": "Не удалось загрузить объявление для редактирования.",
		})
		return
	}
	h.renderCatForm(c, http.StatusOK, catFormView{
		ID:          cat.ID,
		Name:        cat.Name,
		Age:         cat.Age,
		Gender:      cat.Gender,
		Location:    cat.Location,
		Description: cat.Description,
		Photos:      cat.Photos,
	}, "")
}

// HandleCreate обрабатывает отправку формы в режиме создания.
func (h *Handlers) HandleCreate(c *gin.Context) {
	h.submitCatForm(c, "")
}

// HandleUpdate обрабатывает отправку формы в режиме редактирования.
func (h *Handlers) HandleUpdate(c *gin.Context) {
	h.submitCatForm(c, c.Param("id"))
}

// submitCatForm - общий путь create/update. Режим определяется
// исключительно наличием идентификатора.
//
// Порядок обязателен: сначала валидация текстовых полей (одна агрегатная
// ошибка, ни одного сетевого запроса при провале), затем ограничения
// фотографий, и только потом сетевой вызов.
func (h *Handlers) submitCatForm(c *gin.Context, id string) {
	editMode := id != ""

	// Ограничиваем общий размер запроса до разумного предела.
	maxTotalSize := int64(services.MaxPhotos*MaxUploadSize + 1<<20)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxTotalSize)

	if err := c.Request.ParseMultipartForm(MaxUploadSize); err != nil {
		log.Printf("Ошибка разбора multipart-формы объявления: %v", err)
		h.renderCatForm(c, http.StatusBadRequest, catFormView{ID: id},
			"Не удалось обработать форму. Возможно, файлы слишком большие.")
		return
	}

	view := catFormView{
		ID:          id,
		Name:        strings.TrimSpace(c.PostForm("name")),
		Age:         c.PostForm("age"),
		Gender:      c.PostForm("gender"),
		Location:    strings.TrimSpace(c.PostForm("location")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Photos:      c.PostFormArray("existing_photos"),
	}

	// Клиентская валидация до любой отправки по сети: одна агрегатная
	// ошибка на все обязательные поля. Сервер проверит повторно.
	if view.Name == "" || view.Description == "" || view.Age == "" || view.Gender == "" {
		h.renderCatForm(c, http.StatusBadRequest, view,
			"Все поля, отмеченные (*), обязательны.")
		return
	}

	// Фотографии: сохраненные ссылки пришли скрытыми полями,
	// новые файлы - в поле "photos".
	files := c.Request.MultipartForm.File["photos"]
	uploads, err := services.PreparePhotos(files)
	if err != nil {
		log.Printf("Ошибка подготовки фотографий: %v", err)
		h.renderCatForm(c, http.StatusBadRequest, view, err.Error())
		return
	}

	set := services.NewPhotoSet(view.Photos)
	if err := set.Add(uploads); err != nil {
		// Лимит превышен: состояние не меняется, запрос не отправляется.
		h.renderCatForm(c, http.StatusBadRequest, view, err.Error())
		return
	}

	form := api.CatForm{
		Name:        view.Name,
		Age:         view.Age,
		Gender:      view.Gender,
		Location:    view.Location,
		Description: view.Description,
		Uploads:     set.Uploads(),
	}

	ctx := c.Request.Context()
	token := h.sess.Token(c)
	if editMode {
		_, err = h.api.UpdateCat(ctx, token, id, form)
	} else {
		_, err = h.api.CreateCat(ctx, token, form)
	}
	if err != nil {
		log.Printf("Ошибка сохранения объявления (edit=%v): %v", editMode, err)
		fallback := "Не удалось опубликовать объявление. Проверьте поля и попробуйте снова."
		if editMode {
			fallback = "Не удалось сохранить изменения. Проверьте поля и попробуйте снова."
		}
		h.renderCatForm(c, http.StatusBadGateway, view, api.ServerMessage(err, fallback))
		return
	}

	// Успех: создание ведет на главную, редактирование - обратно в кабинет
	// с полной повторной выборкой.
	if editMode {
		log.Printf("Объявление %s обновлено.", id)
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	log.Printf("Создано новое объявление %q.", form.Name)
	c.Redirect(http.StatusFound, "/")
}
