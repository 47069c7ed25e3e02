package services

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fileHeaders собирает multipart-запрос с переданными файлами и возвращает
// разобранные *multipart.FileHeader - так PreparePhoto получает на вход
// то же самое, что и в настоящем обработчике.
func fileHeaders(t *testing.T, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for name, data := range files {
		part, err := w.CreateFormFile("photos", name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/post", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	return req.MultipartForm.File["photos"]
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestPreparePhotoDownscalesLargeImage(t *testing.T) {
	t.Parallel()

	headers := fileHeaders(t, map[string][]byte{
		"big.png": pngBytes(t, MaxPhotoEdge*2, 100),
	})

	up, err := PreparePhoto(headers[0])
	if err != nil {
		t.Fatalf("PreparePhoto: %v", err)
	}
	if up.ContentType != "image/png" {
		t.Fatalf("ContentType = %q, ожидалось image/png", up.ContentType)
	}

	decoded, _, err := image.Decode(bytes.NewReader(up.Data))
	if err != nil {
		t.Fatalf("результат не декодируется: %v", err)
	}
	if w := decoded.Bounds().Dx(); w > MaxPhotoEdge {
		t.Fatalf("ширина после уменьшения %d > %d", w, MaxPhotoEdge)
	}
}

func TestPreparePhotoKeepsSmallImageSize(t *testing.T) {
	t.Parallel()

	headers := fileHeaders(t, map[string][]byte{
		"small.png": pngBytes(t, 120, 80),
	})

	up, err := PreparePhoto(headers[0])
	if err != nil {
		t.Fatalf("PreparePhoto: %v", err)
	}
	decoded, _, err := image.Decode(bytes.NewReader(up.Data))
	if err != nil {
		t.Fatalf("результат не декодируется: %v", err)
	}
	if decoded.Bounds().Dx() != 120 || decoded.Bounds().Dy() != 80 {
		t.Fatalf("маленькое изображение изменило размер: %v", decoded.Bounds())
	}
}

func TestPreparePhotosRejectsNonImage(t *testing.T) {
	t.Parallel()

	headers := fileHeaders(t, map[string][]byte{
		"notes.txt": []byte("это не изображение, а обычный текст в файле"),
	})

	if _, err := PreparePhotos(headers); err == nil {
		t.Fatal("ожидалась ошибка для файла, не являющегося изображением")
	}
}
