package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/2beens/portfolio/internal/telemetry/metrics"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	FormField = "image"
	// room for the multipart envelope around the file itself
	multipartOverhead = 64 << 10
	sniffLen          = 512
)

type Handler struct {
	uploader       Uploader
	folder         string
	maxSize        int64
	metricsManager *metrics.Manager
}

type uploadResponse struct {
	URL string `json:"url"`
}

func NewHandler(uploader Uploader, folder string, maxSize int64, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		uploader:       uploader,
		folder:         folder,
		maxSize:        maxSize,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/upload", handler.handleUpload).Methods("POST", "OPTIONS").Name("media-upload")
}

func (handler *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "mediaHandler.upload")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, handler.maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(handler.maxSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			handler.reject(w, "file too large", http.StatusRequestEntityTooLarge)
			span.SetStatus(codes.Error, "too-large")
			return
		}
		log.Debugf("upload, parse multipart form: %s", err)
		handler.reject(w, "invalid multipart form", http.StatusBadRequest)
		span.SetStatus(codes.Error, "bad-form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(FormField)
	if err != nil {
		handler.reject(w, fmt.Sprintf("no file provided in field %q", FormField), http.StatusBadRequest)
		span.SetStatus(codes.Error, "no-file")
		return
	}
	defer file.Close()

	obj, err := handler.newObject(file, header)
	if err != nil {
		switch {
		case errors.Is(err, ErrTooLarge):
			handler.reject(w, "file too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, ErrUnsupportedType):
			handler.reject(w, "only jpeg, png, gif and webp images are allowed", http.StatusBadRequest)
		default:
			log.Errorf("upload, read file: %s", err)
			handler.reject(w, "failed to read file", http.StatusBadRequest)
		}
		span.SetStatus(codes.Error, "bad-file")
		return
	}
	span.SetAttributes(
		attribute.String("media.key", obj.Key),
		attribute.Int64("media.size", obj.Size),
	)

	url, err := handler.uploader.Upload(ctx, obj)
	if err != nil {
		log.Errorf("upload [%s] failed: %s", obj.Key, err)
		handler.countUpload("upstream_error")
		span.SetStatus(codes.Error, "upstream")
		span.RecordError(err)
		pkg.WriteJSONError(w, "image upload failed", http.StatusBadGateway)
		return
	}

	handler.countUpload("success")
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONOK(w, uploadResponse{URL: url})
}

func (handler *Handler) newObject(file multipart.File, header *multipart.FileHeader) (Object, error) {
	if header.Size > handler.maxSize {
		return Object{}, ErrTooLarge
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Object{}, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return Object{}, err
	}

	contentType := http.DetectContentType(head[:n])
	ext, ok := imageExtensions[contentType]
	if !ok {
		return Object{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	return Object{
		Key:         path.Join(handler.folder, uuid.NewString()+ext),
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}, nil
}

func (handler *Handler) reject(w http.ResponseWriter, message string, status int) {
	handler.countUpload("rejected")
	pkg.WriteJSONError(w, message, status)
}

func (handler *Handler) countUpload(result string) {
	if handler.metricsManager != nil {
		handler.metricsManager.CounterUploads.WithLabelValues(result).Inc()
	}
}
