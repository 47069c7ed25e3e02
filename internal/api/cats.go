package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"kittenfind/internal/models"
)

// Операции над коллекцией объявлений. Список и карточка доступны анонимно,
// создание/обновление/удаление требуют bearer-токен.

// Upload - новый файл фотографии, подготовленный к отправке
// (уже проверенный и уменьшенный, см. services.PreparePhoto).
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CatForm - поля объявления для создания или обновления.
// Uploads содержит ТОЛЬКО новые файлы: уже сохраненные на сервере
// фотографии (строковые ссылки) повторно не загружаются - сервер
// сохраняет их сам, если они не пришли в запросе.
type CatForm struct {
	Name        string
	Age         string
	Gender      string
	Location    string
	Description string
	Uploads     []Upload
}

// ListCats возвращает полную коллекцию объявлений.
func (c *Client) ListCats(ctx context.Context) ([]models.Cat, error) {
	var cats []models.Cat
	if err := c.do(ctx, http.MethodGet, "/cats", "", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// GetCat возвращает одно объявление по идентификатору.
func (c *Client) GetCat(ctx context.Context, id string) (*models.Cat, error) {
	var cat models.Cat
	if err := c.do(ctx, http.MethodGet, "/cats/"+url.PathEscape(id), "", nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// CreateCat создает новое объявление (multipart-запрос с фотографиями).
func (c *Client) CreateCat(ctx context.Context, token string, form CatForm) (*models.Cat, error) {
	pl, err := newCatPayload(form)
	if err != nil {
		return nil, err
	}
	var cat models.Cat
	if err := c.do(ctx, http.MethodPost, "/cats", token, pl, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// UpdateCat обновляет существующее объявление.
func (c *Client) UpdateCat(ctx context.Context, token, id string, form CatForm) (*models.Cat, error) {
	pl, err := newCatPayload(form)
	if err != nil {
		return nil, err
	}
	var cat models.Cat
	if err := c.do(ctx, http.MethodPut, "/cats/"+url.PathEscape(id), token, pl, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCat удаляет объявление. Тело успешного ответа не используется.
func (c *Client) DeleteCat(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/cats/"+url.PathEscape(id), token, nil, nil)
}

// newCatPayload собирает multipart-тело для create/update.
// Каждое текстовое поле добавляется как обычное поле формы, в поле "photos"
// попадают только новые бинарные файлы. Content-Type с boundary фиксируется
// здесь же и не может быть перезаписан шлюзом.
func newCatPayload(form CatForm) (payload, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := []struct{ name, value string }{
		{"name", form.Name},
		{"age", form.Age},
		{"gender", form.Gender},
		{"location", form.Location},
		{"description", form.Description},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("не удалось записать поле %q: %w", f.name, err)
		}
	}

	for _, up := range form.Uploads {
		part, err := w.CreateFormFile("photos", up.Filename)
		if err != nil {
			return nil, fmt.Errorf("не удалось создать часть для файла %q: %w", up.Filename, err)
		}
		if _, err := part.Write(up.Data); err != nil {
			return nil, fmt.Errorf("не удалось записать файл %q: %w", up.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("не удалось завершить multipart-тело: %w", err)
	}
	return &multipartPayload{buf: buf, ct: w.FormDataContentType()}, nil
}
