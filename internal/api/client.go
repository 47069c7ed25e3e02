package api

import (
	// Стандартные библиотеки
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client - шлюз к удаленному API KittenFind. Все данные приложения живут
// на стороне этого API; клиент держит только временные копии ответов.
//
// Шлюз сознательно примитивен: он не повторяет запросы, не кеширует ответы
// и не ограничивает частоту обращений. Любая ошибка (транспортная или
// статусная) возвращается вызывающему как *Error без изменений.
//
// Таймаут на стороне клиента не задается: зависший запрос висит до отмены
// контекста входящего HTTP-запроса. Это принятое ограничение.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient создает шлюз для заданного базового URL (например,
// "https://kittenfind-backend.example.com/api").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
	}
}

// Error - структурированная ошибка ответа удаленного API.
// StatusCode равен нулю для транспортных ошибок (сеть, DNS, отмена контекста).
// Message содержит сообщение сервера, если оно было в теле ответа.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		if e.StatusCode > 0 {
			return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
		}
		return "api: " + e.Message
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("api: неожиданный статус %d", e.StatusCode)
	}
	return "api: ошибка запроса"
}

// IsUnauthorized сообщает, является ли ошибка ответом 401 от API.
// Это единственное место, где клиент реально узнает о недействительном
// токене: охрана маршрутов проверяет лишь наличие токена, не его валидность.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// ServerMessage возвращает сообщение сервера из ошибки или fallback,
// если сообщения нет (транспортная ошибка, пустое тело ответа).
func ServerMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// payload - явный дискриминированный тип тела исходящего запроса.
// Кодировку (JSON либо multipart) выбирает вызывающий, создавая нужный
// вариант; шлюз НИКОГДА не угадывает ее по форме данных.
type payload interface {
	// contentType возвращает значение заголовка Content-Type.
	// Для multipart оно содержит boundary, сгенерированный при сборке тела,
	// поэтому подменять его на application/json недопустимо - это
	// сломало бы разбор запроса на сервере.
	contentType() string
	// body возвращает готовое тело запроса.
	body() (io.Reader, error)
}

// jsonPayload - JSON-вариант тела запроса.
type jsonPayload struct {
	value any
}

func (p jsonPayload) contentType() string { return "application/json" }

func (p jsonPayload) body() (io.Reader, error) {
	data, err := json.Marshal(p.value)
	if err != nil {
		return nil, fmt.Errorf("не удалось сериализовать тело запроса: %w", err)
	}
	return bytes.NewReader(data), nil
}

// multipartPayload - multipart-вариант тела запроса. Тело собирается
// заранее (см. cats.go), вместе с ним фиксируется Content-Type с boundary.
type multipartPayload struct {
	buf *bytes.Buffer
	ct  string
}

func (p *multipartPayload) contentType() string { return p.ct }

func (p *multipartPayload) body() (io.Reader, error) { return p.buf, nil }

// do выполняет один запрос к API.
// token - bearer-токен текущей сессии; пустая строка означает анонимный запрос.
// Токен передается сюда из cookie-сессии непосредственно в момент вызова,
// так что всегда используется самое свежее значение.
// out - указатель для разбора успешного JSON-ответа; nil, если тело не нужно.
func (c *Client) do(ctx context.Context, method, path, token string, pl payload, out any) error {
	var body io.Reader
	contentType := ""
	if pl != nil {
		var err error
		body, err = pl.body()
		if err != nil {
			return err
		}
		contentType = pl.contentType()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("не удалось создать запрос %s %s: %w", method, path, err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		// Транспортная ошибка: сервер недоступен, сеть оборвалась,
		// контекст отменен. HTTP-статуса нет.
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: "не удалось прочитать тело ответа"}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &Error{StatusCode: resp.StatusCode, Message: serverMessage(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{StatusCode: resp.StatusCode, Message: "не удалось разобрать ответ сервера"}
		}
	}
	return nil
}

// serverMessage пытается извлечь человекочитаемое сообщение из тела ошибки.
// API отвечает JSON-объектом с полем "message", в некоторых ручках - "error".
func serverMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		ErrMsg  string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.ErrMsg
}
