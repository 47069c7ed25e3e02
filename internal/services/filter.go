package services

import (
	"strings"

	"kittenfind/internal/models"
)

// Фильтрация списка объявлений. Все функции чистые: исходный срез
// не изменяется, результат каждый раз выводится заново из свежевыбранной
// коллекции и текущих предикатов.

// Filter - активные предикаты списка. Пустое значение означает
// "предикат выключен".
type Filter struct {
	Search   string // Подстрока имени ИЛИ локации, без учета регистра
	Location string // Точное совпадение локации
	Age      string // Точное совпадение возрастной категории
}

// Active сообщает, включен ли хотя бы один предикат.
// Нужно, чтобы различать "объявлений вообще нет" и "ничего не подошло
// под фильтры" в пустом состоянии списка.
func (f Filter) Active() bool {
	return f.Search != "" || f.Location != "" || f.Age != ""
}

// Matches проверяет одно объявление по всем трем предикатам (логическое И).
func (f Filter) Matches(cat *models.Cat) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		nameHit := strings.Contains(strings.ToLower(cat.Name), needle)
		locHit := strings.Contains(strings.ToLower(cat.Location), needle)
		if !nameHit && !locHit {
			return false
		}
	}
	// Локация и возраст сравниваются строго: значения приходят из
	// выпадающих списков, построенных по самой коллекции, поэтому
	// регистр у предиката и у записи всегда совпадает буквально.
	if f.Location != "" && cat.Location != f.Location {
		return false
	}
	if f.Age != "" && cat.Age != f.Age {
		return false
	}
	return true
}

// FilterCats возвращает новый срез объявлений, удовлетворяющих всем
// предикатам. При полностью пустом фильтре возвращается копия коллекции
// целиком.
func FilterCats(cats []models.Cat, f Filter) []models.Cat {
	out := make([]models.Cat, 0, len(cats))
	for i := range cats {
		if f.Matches(&cats[i]) {
			out = append(out, cats[i])
		}
	}
	return out
}

// UniqueLocations возвращает локации, встречающиеся в коллекции,
// без дубликатов и в порядке первого появления. Из них строится
// выпадающий фильтр по локации.
func UniqueLocations(cats []models.Cat) []string {
	seen := make(map[string]bool, len(cats))
	var out []string
	for i := range cats {
		loc := cats[i].Location
		if loc == "" || seen[loc] {
			continue
		}
		seen[loc] = true
		out = append(out, loc)
	}
	return out
}

// OwnedBy возвращает объявления, принадлежащие пользователю с данным
// идентификатором. Объявления без владельца исключаются всегда,
// даже при пустом userID.
func OwnedBy(cats []models.Cat, userID string) []models.Cat {
	out := make([]models.Cat, 0, len(cats))
	if userID == "" {
		return out
	}
	for i := range cats {
		if cats[i].OwnerID() == userID {
			out = append(out, cats[i])
		}
	}
	return out
}
