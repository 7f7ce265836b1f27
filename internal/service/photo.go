package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"campus-events/internal/worker"

	"github.com/gabriel-vasile/mimetype"
)

// ErrInvalidPhoto is wrapped by every photo payload rejection.
var ErrInvalidPhoto = errors.New("invalid photo")

var supportedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// CheckPhoto 檢查單張 base64 圖片 (可帶 data URL 前綴)，回傳偵測到的 MIME 類型
func CheckPhoto(payload string, maxBytes int) (string, error) {
	raw := payload
	if strings.HasPrefix(raw, "data:") {
		i := strings.Index(raw, ",")
		if i < 0 || !strings.HasSuffix(raw[:i], ";base64") {
			return "", fmt.Errorf("%w: malformed data URL", ErrInvalidPhoto)
		}
		raw = raw[i+1:]
	}
	if raw == "" {
		return "", fmt.Errorf("%w: empty payload", ErrInvalidPhoto)
	}
	if base64.StdEncoding.DecodedLen(len(raw)) > maxBytes+2 {
		return "", fmt.Errorf("%w: larger than %d bytes", ErrInvalidPhoto, maxBytes)
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("%w: not base64", ErrInvalidPhoto)
	}
	if len(data) > maxBytes {
		return "", fmt.Errorf("%w: larger than %d bytes", ErrInvalidPhoto, maxBytes)
	}

	mt := mimetype.Detect(data).String()
	if !supportedPhotoTypes[mt] {
		return "", fmt.Errorf("%w: unsupported type %s", ErrInvalidPhoto, mt)
	}
	return mt, nil
}

// CheckPhotos 將每張圖片的檢查分派給 worker pool，回傳第一個失敗 (依索引順序)
func CheckPhotos(ctx context.Context, wp worker.Pool, payloads []string, maxBytes int) error {
	errs := make([]error, len(payloads))
	var wg sync.WaitGroup
	for i, p := range payloads {
		wg.Add(1)
		err := wp.Submit(ctx, func() {
			defer wg.Done()
			if _, err := CheckPhoto(p, maxBytes); err != nil {
				errs[i] = fmt.Errorf("image %d: %w", i, err)
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return err
		}
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
