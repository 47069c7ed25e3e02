package services

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	_ "image/gif"
	"image/jpeg"
	_ "image/jpeg"
	"image/png"
	_ "image/png"

	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/nfnt/resize"

	"kittenfind/internal/api"
)

// AllowedImageTypes - карта разрешенных MIME-типов фотографий.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// MaxPhotoEdge - максимальная сторона фотографии в пикселях.
// Более крупные снимки уменьшаются перед отправкой на удаленный API,
// чтобы не гонять по сети многомегабайтные оригиналы с телефонов.
const MaxPhotoEdge = 1600

// PreparePhoto проверяет и подготавливает один загруженный файл к отправке.
// Файл декодируется (что заодно отбрасывает большинство метаданных),
// при необходимости уменьшается и перекодируется в исходный формат.
// Возвращается готовый к multipart-отправке api.Upload.
func PreparePhoto(fileHeader *multipart.FileHeader) (api.Upload, error) {
	// Открываем загруженный файл
	file, err := fileHeader.Open()
	if err != nil {
		return api.Upload{}, fmt.Errorf("не удалось открыть загруженный файл: %w", err)
	}
	defer file.Close()

	// Определяем реальный тип файла по первым 512 байтам
	buffer := make([]byte, 512)
	_, err = file.Read(buffer)
	if err != nil && err != io.EOF { // EOF не ошибка, если файл меньше 512 байт
		return api.Upload{}, fmt.Errorf("не удалось прочитать начало файла: %w", err)
	}
	// Сбрасываем указатель чтения обратно в начало файла!
	if _, err = file.Seek(0, io.SeekStart); err != nil {
		return api.Upload{}, fmt.Errorf("не удалось вернуть указатель файла в начало: %w", err)
	}

	contentType := http.DetectContentType(buffer)
	if !AllowedImageTypes[contentType] {
		return api.Upload{}, fmt.Errorf("недопустимый тип файла: %s", contentType)
	}

	// Декодируем изображение. Если декодер не справился - файл поврежден
	// или не является изображением.
	img, detectedFormat, err := image.Decode(file)
	if err != nil {
		return api.Upload{}, fmt.Errorf("не удалось декодировать изображение: %w", err)
	}

	// Уменьшаем слишком крупные снимки с сохранением пропорций.
	bounds := img.Bounds()
	if bounds.Dx() > MaxPhotoEdge || bounds.Dy() > MaxPhotoEdge {
		log.Printf("Фотография %s уменьшается: %dx%d -> макс. сторона %d",
			fileHeader.Filename, bounds.Dx(), bounds.Dy(), MaxPhotoEdge)
		img = resize.Thumbnail(MaxPhotoEdge, MaxPhotoEdge, img, resize.Lanczos3)
	}

	// Перекодируем в исходный формат в память.
	var out bytes.Buffer
	switch detectedFormat {
	case "jpeg":
		err = jpeg.Encode(&out, img, nil)
	case "png":
		err = png.Encode(&out, img)
	case "gif":
		err = gif.Encode(&out, img, nil)
	default:
		return api.Upload{}, fmt.Errorf("неизвестный формат изображения: %s", detectedFormat)
	}
	if err != nil {
		return api.Upload{}, fmt.Errorf("не удалось закодировать изображение: %w", err)
	}

	return api.Upload{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        out.Bytes(),
	}, nil
}

// PreparePhotos подготавливает набор загруженных файлов. Ошибка первого же
// проблемного файла прерывает обработку: форма отклоняется целиком,
// частично подготовленные выборки не отправляются.
func PreparePhotos(fileHeaders []*multipart.FileHeader) ([]api.Upload, error) {
	uploads := make([]api.Upload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if fh.Size == 0 {
			return nil, fmt.Errorf("файл %q пустой", fh.Filename)
		}
		up, err := PreparePhoto(fh)
		if err != nil {
			return nil, fmt.Errorf("файл %q: %w", fh.Filename, err)
		}
		uploads = append(uploads, up)
	}
	return uploads, nil
}
