package main

import (
	// Импорт стандартных библиотек
	"log"
	"os"

	// Импорт внутренних пакетов проекта
	"kittenfind/internal/api"
	"kittenfind/internal/handlers"
	"kittenfind/internal/middleware"
	"kittenfind/internal/session"

	// Импорт сторонних библиотек
	"github.com/gin-contrib/sessions"        // Middleware для управления сессиями в Gin
	"github.com/gin-contrib/sessions/cookie" // Хранилище сессий на основе Cookie
	"github.com/gin-gonic/gin"               // Основной веб-фреймворк Gin
)

// getEnv получает значение переменной окружения по ключу.
// Если переменная не установлена, возвращает значение fallback и логирует предупреждение.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	log.Printf("Переменная окружения %s не установлена, используется значение по умолчанию: %s", key, fallback)
	return fallback
}

// main - точка входа веб-клиента KittenFind.
// Приложение не хранит никаких данных само: все объявления, пользователи
// и файлы живут на удаленном API; здесь только отрисовка страниц и
// cookie-сессия с bearer-токеном.
func main() {
	// --- 1. Конфигурация ---
	apiBaseURL := getEnv("API_BASE_URL", "https://kittenfind-backend-5.onrender.com/api") // Базовый URL удаленного API
	assetBaseURL := getEnv("ASSET_BASE_URL", "https://kittenfind-backend-5.onrender.com") // Origin для ссылок на фотографии
	cookieSecret := getEnv("COOKIE_SECRET", "fallback-secret-change-in-production")       // Секрет для подписи cookie
	listenPort := getEnv("LISTEN_PORT", "8080")                                           // Порт для прослушивания

	// --- 2. Инициализация Зависимостей ---
	apiClient := api.NewClient(apiBaseURL)
	sessionStore := session.NewStore()
	h := handlers.New(apiClient, sessionStore, assetBaseURL)

	// Устанавливаем режим работы Gin (ReleaseMode - меньше логов).
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// Настройка доверенных прокси. `nil` доверяет любому прокси - удобно
	// за обратным прокси в контейнере, но требует осторожности.
	log.Println("ПРЕДУПРЕЖДЕНИЕ: Установка доверенных прокси в nil. Убедитесь, что это безопасно в вашей среде.")
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatalf("Ошибка установки доверенных прокси: %v", err)
	}

	// Максимальный размер multipart-формы, хранимой в памяти.
	router.MaxMultipartMemory = 10 << 20 // 10 МБ

	// Cookie-хранилище сессий: здесь живет bearer-токен удаленного API.
	store := cookie.NewStore([]byte(cookieSecret))
	store.Options(sessions.Options{
		Path:   "/",
		MaxAge: 86400 * 7, // 7 дней - токен переживает перезагрузку страницы
		// HttpOnly запрещает доступ к cookie из JavaScript (защита от XSS).
		HttpOnly: true,
		// Для локальной разработки без HTTPS оставляем false.
		Secure: false,
	})

	// --- 3. Подключение Middleware ---
	router.Use(sessions.Sessions("kittenfind_session", store))
	router.Use(middleware.RequestID())

	// --- 4. Настройка Статики и Шаблонов ---
	router.LoadHTMLGlob("web/templates/*")
	router.Static("/static", "./web/static")

	// --- 5. Определение Маршрутов ---

	// Публичные маршруты: просмотр не требует входа.
	public := router.Group("/")
	{
		public.GET("/", h.ShowHome)                  // Сетка объявлений с фильтрами
		public.GET("/login", h.ShowLoginPage)        // Страница входа (GET)
		public.POST("/login", h.HandleLogin)         // Обработка формы входа (POST)
		public.GET("/register", h.ShowRegisterPage)  // Страница регистрации (GET)
		public.POST("/register", h.HandleRegister)   // Обработка формы регистрации (POST)
		public.GET("/cats/:id", h.ShowCatDetail)     // Карточка объявления
	}

	// Маршруты, требующие токена в сессии. Охрана проверяет только
	// наличие токена; недействительный токен отлавливается позже,
	// при первом же запросе к API.
	protected := router.Group("/")
	protected.Use(middleware.AuthRequired(sessionStore))
	{
		protected.GET("/post", h.ShowCreateForm)             // Форма создания (GET)
		protected.POST("/post", h.HandleCreate)              // Создание объявления (POST)
		protected.GET("/cats/:id/edit", h.ShowEditForm)      // Форма редактирования (GET)
		protected.POST("/cats/:id/edit", h.HandleUpdate)     // Обновление объявления (POST)
		protected.POST("/cats/:id/delete", h.HandleDelete)   // Удаление (POST, с подтверждением в браузере)
		protected.GET("/dashboard", h.ShowDashboard)         // Личный кабинет
		protected.POST("/logout", h.HandleLogout)            // Выход
	}

	// Все остальные пути ведут на главную.
	router.NoRoute(h.RedirectHome)

	// --- 6. Запуск Сервера ---
	listenAddr := ":" + listenPort
	log.Printf("Сервер запускается на порту %s, удаленный API: %s", listenPort, apiBaseURL)
	if err := router.Run(listenAddr); err != nil {
		log.Fatalf("Не удалось запустить сервер: %v", err)
	}
}
