package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/bagstore/internal/log"
	inOtel "github.com/Alturino/bagstore/internal/otel"
	productErrors "github.com/Alturino/bagstore/product/internal/errors"
	"github.com/Alturino/bagstore/product/internal/otel"
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store keeps uploaded product images on the local disk. Saved images are
// served under publicPrefix.
type Store struct {
	dir          string
	publicPrefix string
	maxBytes     int64
}

func NewStore(dir string, publicPrefix string, maxMB int64) *Store {
	if maxMB <= 0 {
		maxMB = 5
	}
	return &Store{
		dir:          dir,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
		maxBytes:     maxMB << 20,
	}
}

func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save writes every file and returns their public paths in order. Nothing is
// left on disk when one of them fails.
func (s *Store) Save(c context.Context, files []*multipart.FileHeader) ([]string, error) {
	c, span := otel.Tracer.Start(c, "Store Save")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Store Save").
		Int("fileCount", len(files)).
		Logger()

	if len(files) == 0 {
		return []string{}, nil
	}

	logger = logger.With().Str(log.KeyProcess, "creating upload dir").Logger()
	logger.Trace().Msg("creating upload dir")
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		err = fmt.Errorf("failed creating upload dir=%s with error=%w", s.dir, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Trace().Msg("created upload dir")

	saved := make([]string, 0, len(files))
	for _, file := range files {
		logger := logger.With().
			Str(log.KeyProcess, "saving image").
			Str("filename", file.Filename).
			Int64("size", file.Size).
			Logger()
		logger.Trace().Msg("saving image")
		public, err := s.save(file)
		if err != nil {
			err = fmt.Errorf("failed saving image=%s with error=%w", file.Filename, err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			s.Remove(logger.WithContext(c), saved)
			return nil, err
		}
		saved = append(saved, public)
		logger.Trace().Str("path", public).Msg("saved image")
	}
	logger.Info().Strs(log.KeyUploadedFiles, saved).Msg("saved images")
	return saved, nil
}

func (s *Store) save(file *multipart.FileHeader) (string, error) {
	if file.Size > s.maxBytes {
		return "", productErrors.ErrImageTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", err
	}
	ext, ok := extensions[http.DetectContentType(head[:n])]
	if !ok {
		return "", productErrors.ErrImageUnsupported
	}
	if _, err = src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	written, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxBytes {
		err = productErrors.ErrImageTooLarge
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", err
	}
	return path.Join(s.publicPrefix, name), nil
}

// Remove deletes images saved by this store. Paths outside the public prefix
// are ignored.
func (s *Store) Remove(c context.Context, public []string) {
	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "Store Remove").Logger()
	for _, p := range public {
		if !strings.HasPrefix(p, s.publicPrefix+"/") {
			continue
		}
		name := filepath.Base(p)
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			err = fmt.Errorf("failed removing image=%s with error=%w", p, err)
			logger.Error().Err(err).Msg(err.Error())
		}
	}
}
