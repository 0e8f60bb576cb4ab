package middleware

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"care-dispatch/internal/config"
	"care-dispatch/internal/logger"

	"github.com/google/uuid"
)

// Расширения, допустимые для загружаемых файлов
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

var documentExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// Uploader сохраняет загружаемые файлы на диск
type Uploader struct {
	dir     string
	maxSize int64
	log     *logger.Logger
}

// NewUploader создает Uploader и каталог для файлов
func NewUploader(cfg *config.UploadConfig, log *logger.Logger) (*Uploader, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	return &Uploader{
		dir:     cfg.Dir,
		maxSize: int64(cfg.MaxSizeMB) << 20,
		log:     log,
	}, nil
}

// Dir возвращает каталог с загруженными файлами
func (u *Uploader) Dir() string {
	return u.dir
}

// MaxSize возвращает предельный размер файла в байтах
func (u *Uploader) MaxSize() int64 {
	return u.maxSize
}

// SaveImage сохраняет изображение и возвращает имя сохраненного файла
func (u *Uploader) SaveImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	return u.save(file, header, imageExtensions)
}

// SaveDocument сохраняет документ (изображение или PDF)
func (u *Uploader) SaveDocument(file multipart.File, header *multipart.FileHeader) (string, error) {
	return u.save(file, header, documentExtensions)
}

func (u *Uploader) save(file multipart.File, header *multipart.FileHeader, allowed map[string]bool) (string, error) {
	if header.Size > u.maxSize {
		return "", fmt.Errorf("file too large: %d bytes", header.Size)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowed[ext] {
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(u.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, u.maxSize)); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	u.log.WithField("file", name).WithField("size", header.Size).Debug("File uploaded")

	return name, nil
}
