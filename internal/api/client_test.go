package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoginSendsJSONWithoutToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("неожиданный запрос: %s %s", r.Method, r.URL.Path)
		}
		// Анонимная операция: заголовка Authorization быть не должно.
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, ожидался пустой", got)
		}
		// JSON-вариант тела обязан явно нести JSON content-type.
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, ожидался application/json", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok-123"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	token, err := client.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("token = %q, ожидался tok-123", token)
	}
}

func TestMeAttachesBearerToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q, ожидался Bearer tok-123", got)
		}
		_, _ = w.Write([]byte(`{"_id":"u1","name":"Анна","phone":"+791234567"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	user, err := client.Me(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.ID != "u1" || user.Name != "Анна" {
		t.Fatalf("неожиданный пользователь: %+v", user)
	}
}

func TestErrorCarriesServerMessageAndStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantUnauth bool
	}{
		{
			name:    "message field",
			status:  http.StatusBadRequest,
			body:    `{"message":"Имя обязательно"}`,
			wantMsg: "Имя обязательно",
		},
		{
			name:    "error field",
			status:  http.StatusInternalServerError,
			body:    `{"error":"что-то пошло не так"}`,
			wantMsg: "что-то пошло не так",
		},
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"message":"Invalid token"}`,
			wantMsg:    "Invalid token",
			wantUnauth: true,
		},
		{
			name:    "non-json body",
			status:  http.StatusBadGateway,
			body:    "Bad Gateway",
			wantMsg: "",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL)
			_, err := client.ListCats(context.Background())
			if err == nil {
				t.Fatal("ожидалась ошибка")
			}

			apiErr, ok := err.(*Error)
			if !ok {
				t.Fatalf("тип ошибки %T, ожидался *Error", err)
			}
			if apiErr.StatusCode != tc.status {
				t.Fatalf("StatusCode = %d, ожидался %d", apiErr.StatusCode, tc.status)
			}
			if apiErr.Message != tc.wantMsg {
				t.Fatalf("Message = %q, ожидалось %q", apiErr.Message, tc.wantMsg)
			}
			if IsUnauthorized(err) != tc.wantUnauth {
				t.Fatalf("IsUnauthorized = %v, ожидалось %v", IsUnauthorized(err), tc.wantUnauth)
			}
		})
	}
}

func TestTransportErrorHasZeroStatus(t *testing.T) {
	t.Parallel()

	// Сервер закрыт сразу: любой запрос - транспортная ошибка.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL)
	_, err := client.ListCats(context.Background())
	if err == nil {
		t.Fatal("ожидалась транспортная ошибка")
	}
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("тип ошибки %T, ожидался *Error", err)
	}
	if apiErr.StatusCode != 0 {
		t.Fatalf("StatusCode = %d, для транспортной ошибки ожидался 0", apiErr.StatusCode)
	}
	if IsUnauthorized(err) {
		t.Fatal("транспортная ошибка не должна считаться 401")
	}
}

func TestServerMessageFallback(t *testing.T) {
	t.Parallel()

	withMsg := &Error{StatusCode: 400, Message: "поле не заполнено"}
	if got := ServerMessage(withMsg, "fallback"); got != "поле не заполнено" {
		t.Fatalf("ServerMessage = %q", got)
	}
	noMsg := &Error{StatusCode: 502}
	if got := ServerMessage(noMsg, "fallback"); got != "fallback" {
		t.Fatalf("ServerMessage без сообщения = %q, ожидался fallback", got)
	}
	if got := ServerMessage(context.Canceled, "fallback"); got != "fallback" {
		t.Fatalf("ServerMessage для чужой ошибки = %q, ожидался fallback", got)
	}
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/")
	if _, err := client.ListCats(context.Background()); err != nil {
		t.Fatalf("ListCats: %v", err)
	}
	if strings.Contains(gotPath, "//") {
		t.Fatalf("путь содержит двойной слэш: %q", gotPath)
	}
}
