package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/2beens/portfolio/internal/telemetry/metrics"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	maxBodySize          = 1 << 16
	defaultNotifyTimeout = 30 * time.Second
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=contact_test

type messagesRepo interface {
	Add(ctx context.Context, message *Message) (*Message, error)
	List(ctx context.Context) ([]Message, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

type Notifier interface {
	NotifyNewMessage(ctx context.Context, message Message) error
}

type Handler struct {
	repo           messagesRepo
	notifier       Notifier
	metricsManager *metrics.Manager
	notifyTimeout  time.Duration

	// pending notifications
	notifications sync.WaitGroup
}

type createResponse struct {
	Message string   `json:"message"`
	Saved   *Message `json:"saved"`
}

type deleteAllResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

// NewHandler creates the contact handler. notifier may be nil, then no mails are sent.
func NewHandler(
	repo messagesRepo,
	notifier Notifier,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		notifier:       notifier,
		metricsManager: metricsManager,
		notifyTimeout:  defaultNotifyTimeout,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", handler.handleCreate).Methods("POST", "OPTIONS").Name("contact-create")
	router.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS").Name("contact-list")
	router.HandleFunc("", handler.handleDeleteAll).Methods("DELETE", "OPTIONS").Name("contact-delete-all")
	router.HandleFunc("/{id:[0-9]+}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("contact-delete")
}

// PublicRoutes are the route names visitors can reach without a token.
func PublicRoutes() []string {
	return []string{"contact-create"}
}

// WaitNotifications blocks until all in-flight mail notifications are done
// or ctx ends, whichever comes first.
func (handler *Handler) WaitNotifications(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		handler.notifications.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for contact notifications: %w", ctx.Err())
	}
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "contactHandler.create")
	defer span.End()

	var in Input
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&in); err != nil {
		log.Debugf("decode contact message: %s", err)
		span.SetStatus(codes.Error, "bad-request")
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		span.SetStatus(codes.Error, "validation")
		pkg.WriteJSONValidationError(w, err)
		return
	}

	saved, err := handler.repo.Add(ctx, in.toMessage())
	if err != nil {
		log.Errorf("failed to save contact message from [%s]: %s", in.Email, err)
		span.SetStatus(codes.Error, "add")
		span.RecordError(err)
		pkg.WriteJSONError(w, "failed to save message", http.StatusInternalServerError)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterMessages.Inc()
	}
	span.SetAttributes(attribute.Int64("message.id", saved.ID))

	handler.notify(ctx, *saved)

	log.Debugf("new contact message saved: %d", saved.ID)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSON(w, createResponse{
		Message: "message received",
		Saved:   saved,
	}, http.StatusCreated)
}

// notify sends the mail in the background, a failure is logged and never reaches the visitor.
func (handler *Handler) notify(ctx context.Context, message Message) {
	if handler.notifier == nil {
		return
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), handler.notifyTimeout)
	handler.notifications.Add(1)
	go func() {
		defer handler.notifications.Done()
		defer cancel()

		if err := handler.notifier.NotifyNewMessage(notifyCtx, message); err != nil {
			log.Errorf("notify about contact message %d: %s", message.ID, err)
			if handler.metricsManager != nil {
				handler.metricsManager.CounterMailFailures.Inc()
			}
			return
		}
		log.Tracef("notification for contact message %d sent", message.ID)
	}()
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "contactHandler.list")
	defer span.End()

	messages, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list contact messages: %s", err)
		span.SetStatus(codes.Error, "list")
		span.RecordError(err)
		pkg.WriteJSONError(w, "failed to get messages", http.StatusInternalServerError)
		return
	}

	if messages == nil {
		messages = []Message{}
	}

	span.SetAttributes(attribute.Int("messages.count", len(messages)))
	pkg.WriteJSONOK(w, messages)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "contactHandler.delete")
	defer span.End()

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		pkg.WriteJSONError(w, "invalid message id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			span.SetStatus(codes.Error, "not-found")
			pkg.WriteJSONError(w, "message not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete contact message %d: %s", id, err)
		span.SetStatus(codes.Error, "delete")
		span.RecordError(err)
		pkg.WriteJSONError(w, "failed to delete message", http.StatusInternalServerError)
		return
	}

	log.Debugf("contact message %d deleted", id)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONMessage(w, "message deleted", http.StatusOK)
}

func (handler *Handler) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "contactHandler.deleteAll")
	defer span.End()

	deleted, err := handler.repo.DeleteAll(ctx)
	if err != nil {
		log.Errorf("failed to delete all contact messages: %s", err)
		span.SetStatus(codes.Error, "delete-all")
		span.RecordError(err)
		pkg.WriteJSONError(w, "failed to delete messages", http.StatusInternalServerError)
		return
	}

	log.Debugf("all contact messages deleted: %d", deleted)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONOK(w, deleteAllResponse{
		Message: "all messages deleted",
		Deleted: deleted,
	})
}
