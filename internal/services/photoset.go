package services

import (
	"errors"
	"fmt"

	"kittenfind/internal/api"
)

// MaxPhotos - максимальное общее число фотографий в объявлении.
// Проверяется на клиенте до отправки запроса; сервер проверяет повторно.
const MaxPhotos = 5

// ErrTooManyPhotos возвращается, когда добавление файлов превысило бы лимит.
// Состояние набора при этом не меняется - отклоняется вся новая выборка.
var ErrTooManyPhotos = fmt.Errorf("можно прикрепить не более %d фотографий", MaxPhotos)

// PhotoItem - один элемент последовательности фотографий объявления:
// либо уже сохраненная на сервере ссылка, либо новый локальный файл,
// ожидающий загрузки. Ровно одно из полей заполнено.
type PhotoItem struct {
	Ref    string      // Серверная ссылка (непустая = фотография уже сохранена)
	Upload *api.Upload // Новый файл, еще не отправленный на сервер
}

// Persisted сообщает, является ли элемент уже сохраненной ссылкой.
func (p PhotoItem) Persisted() bool {
	return p.Ref != ""
}

// PhotoSet - упорядоченный набор фотографий формы подачи объявления.
// Items и Previews всегда выровнены по индексам: Previews[i] - это то,
// что показывается пользователю для Items[i] (серверная ссылка либо
// имя локального файла).
type PhotoSet struct {
	Items    []PhotoItem
	Previews []string
}

// NewPhotoSet создает набор из уже сохраненных ссылок (режим редактирования).
// В режиме создания refs пуст.
func NewPhotoSet(refs []string) *PhotoSet {
	s := &PhotoSet{}
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		s.Items = append(s.Items, PhotoItem{Ref: ref})
		s.Previews = append(s.Previews, ref)
	}
	return s
}

// Add добавляет новую выборку файлов. Сохраненные ссылки отфильтровываются
// из текущего состояния: новая выборка всегда замещает подмножество
// "ожидающие загрузки", объединяясь с уже добавленными локальными файлами.
// Если локальных файлов вместе с новыми становится больше MaxPhotos,
// вся выборка отклоняется целиком и набор остается без изменений.
func (s *PhotoSet) Add(uploads []api.Upload) error {
	// Оставляем только локальные файлы - так делает и исходная форма:
	// сохраненные ссылки сервер и без того не потеряет.
	locals := make([]PhotoItem, 0, len(s.Items))
	for _, item := range s.Items {
		if !item.Persisted() {
			locals = append(locals, item)
		}
	}

	if len(locals)+len(uploads) > MaxPhotos {
		return ErrTooManyPhotos
	}

	items := locals
	for i := range uploads {
		up := uploads[i]
		items = append(items, PhotoItem{Upload: &up})
	}

	s.Items = items
	s.Previews = s.Previews[:0]
	for _, item := range items {
		s.Previews = append(s.Previews, previewOf(item))
	}
	return nil
}

// Remove удаляет фотографию по индексу из обеих последовательностей,
// сохраняя относительный порядок остальных элементов.
func (s *PhotoSet) Remove(i int) error {
	if i < 0 || i >= len(s.Items) {
		return errors.New("индекс фотографии вне диапазона")
	}
	s.Items = append(s.Items[:i], s.Items[i+1:]...)
	s.Previews = append(s.Previews[:i], s.Previews[i+1:]...)
	return nil
}

// Uploads возвращает только новые локальные файлы - ровно то, что попадет
// в поле "photos" multipart-запроса. Сохраненные ссылки никогда не
// загружаются повторно.
func (s *PhotoSet) Uploads() []api.Upload {
	var out []api.Upload
	for _, item := range s.Items {
		if item.Upload != nil {
			out = append(out, *item.Upload)
		}
	}
	return out
}

// Len возвращает общее число элементов набора.
func (s *PhotoSet) Len() int {
	return len(s.Items)
}

func previewOf(item PhotoItem) string {
	if item.Persisted() {
		return item.Ref
	}
	return item.Upload.Filename
}
