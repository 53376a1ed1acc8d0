package service

import (
	"bytes"
	"context"
	log "log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"realdeal/internal/pkg/consts"
	"realdeal/internal/pkg/minio"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// UploadService 帖子与头像图片上传
type UploadService interface {
	// UploadImage 存入对象存储并返回公开访问 URL，过宽的图片先等比缩小
	UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error)
}

type uploadServiceImpl struct{}

func NewUploadService() UploadService {
	return &uploadServiceImpl{}
}

func (s *uploadServiceImpl) UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrFileNotSupported
	}

	format, err := imaging.FormatFromFilename(file.Filename)
	if err != nil {
		return "", ErrFileNotSupported
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer func() {
		_ = src.Close()
	}()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", ErrFileNotSupported
	}

	if img.Bounds().Dx() > consts.UploadMaxEdge {
		img = imaging.Resize(img, consts.UploadMaxEdge, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, img, format); err != nil {
		return "", err
	}

	objectName := consts.UploadKeyPrefix + uuid.New().String() + "-" + filepath.Base(file.Filename)
	if _, err = minio.UploadFile(ctx, objectName, &buf, int64(buf.Len()), contentType); err != nil {
		log.ErrorContext(ctx, "图片上传失败", "object", objectName, "err", err)
		return "", err
	}

	return minio.GetPublicURL(objectName), nil
}
