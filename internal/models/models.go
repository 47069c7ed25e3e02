package models

// Модели данных, которые отдает удаленный API KittenFind.
// Клиент никогда не является владельцем этих данных: каждая структура - это
// временная копия ответа сервера, живущая только в рамках одного запроса.
// Теги `json:"..."` соответствуют именам полей в ответах API (MongoDB-стиль: "_id").

// Допустимые значения возрастной категории кота.
// Сервер хранит их как строки, поэтому здесь обычные строковые константы.
const (
	AgeKitten = "Kitten" // 0-6 месяцев
	AgeYoung  = "Young"  // 6-24 месяца
	AgeAdult  = "Adult"  // 2+ года
	AgeSenior = "Senior" // 7+ лет
)

// Допустимые значения пола.
const (
	GenderMale    = "Male"
	GenderFemale  = "Female"
	GenderUnknown = "Unknown"
)

// AgeCategories - список категорий в порядке отображения в формах и фильтрах.
var AgeCategories = []string{AgeKitten, AgeYoung, AgeAdult, AgeSenior}

// Genders - список значений пола в порядке отображения.
var Genders = []string{GenderMale, GenderFemale, GenderUnknown}

// DefaultLocations - набор локаций, предлагаемых в форме подачи объявления.
// Сервер принимает произвольную строку, так что это только подсказка для формы.
var DefaultLocations = []string{"Kochi", "Ernakulam", "Thrissur", "Alappuzha"}

// User представляет текущего пользователя, полученного через GET /auth/me,
// либо владельца объявления, вложенного в объект кота.
// Клиент никогда не изменяет пользователя - только читает.
type User struct {
	ID       string `json:"_id"`      // Идентификатор пользователя на сервере
	Name     string `json:"name"`     // Отображаемое имя
	Email    string `json:"email"`    // Email (используется только при регистрации/входе)
	Phone    string `json:"phone"`    // Контактный телефон (нужен для кнопки WhatsApp)
	Location string `json:"location"` // Домашняя локация
}

// Cat представляет объявление о найденном коте.
// Поле Photos содержит серверные пути/URL уже загруженных фотографий;
// локальные, еще не отправленные файлы в эту структуру не попадают
// (см. services.PhotoSet).
type Cat struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Age         string   `json:"age"`      // Одна из констант Age*
	Gender      string   `json:"gender"`   // Одна из констант Gender*
	Location    string   `json:"location"` // Свободный текст; форма предлагает DefaultLocations
	Description string   `json:"description"`
	Photos      []string `json:"photos"`         // Серверные ссылки на фотографии
	Adopted     bool     `json:"adopted"`        // Флаг "пристроен"
	User        *User    `json:"user,omitempty"` // Владелец объявления (может отсутствовать)
}

// OwnerID возвращает идентификатор владельца объявления или пустую строку,
// если владелец не указан. Объявления без владельца не показываются в кабинете.
func (c *Cat) OwnerID() string {
	if c.User == nil {
		return ""
	}
	return c.User.ID
}

// HasContactPhone сообщает, можно ли показать кнопку связи с владельцем.
func (c *Cat) HasContactPhone() bool {
	return c.User != nil && c.User.Phone != ""
}
