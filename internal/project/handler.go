package project

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const maxBodySize = 1 << 20

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=project_test

type projectsRepo interface {
	Add(ctx context.Context, project *Project) (*Project, error)
	Get(ctx context.Context, id int64) (*Project, error)
	Update(ctx context.Context, project *Project) (*Project, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Project, error)
}

type Handler struct {
	repo  projectsRepo
	cache *ListCache
}

func NewHandler(repo projectsRepo, cache *ListCache) *Handler {
	return &Handler{
		repo:  repo,
		cache: cache,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS").Name("projects-list")
	router.HandleFunc("/tech", handler.handleListTech).Methods("GET", "OPTIONS").Name("projects-tech")
	router.HandleFunc("/{id:[0-9]+}", handler.handleGet).Methods("GET", "OPTIONS").Name("project-get")
	router.HandleFunc("", handler.handleAdd).Methods("POST", "OPTIONS").Name("project-add")
	router.HandleFunc("/{id:[0-9]+}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("project-update")
	router.HandleFunc("/{id:[0-9]+}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("project-delete")
}

// PublicRoutes are the route names visitors can reach without a token.
func PublicRoutes() []string {
	return []string{"projects-list", "projects-tech", "project-get"}
}

func (handler *Handler) allProjects(ctx context.Context) ([]Project, error) {
	if handler.cache != nil {
		if projects, ok := handler.cache.Get(); ok {
			return projects, nil
		}
	}

	projects, err := handler.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []Project{}
	}

	if handler.cache != nil {
		handler.cache.Set(projects)
	}
	return projects, nil
}

func (handler *Handler) invalidateCache() {
	if handler.cache != nil {
		handler.cache.Invalidate()
	}
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.list")
	defer span.End()

	opts, err := ParseListOptions(r.URL.Query())
	if err != nil {
		span.SetStatus(codes.Error, "bad-options")
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	projects, err := handler.allProjects(ctx)
	if err != nil {
		log.Errorf("list projects: %s", err)
		span.SetStatus(codes.Error, "list")
		span.RecordError(err)
		pkg.WriteJSONError(w, "failed to get projects", http.StatusInternalServerError)
		return
	}

	filtered := Filter(projects, opts)
	span.SetAttributes(attribute.Int("projects.count", len(filtered)))
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONOK(w, filtered)
}

func (handler *Handler) handleListTech(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.listTech")
	defer span.End()

	projects, err := handler.allProjects(ctx)
	if err != nil {
		log.Errorf("list projects tech: %s", err)
		span.SetStatus(codes.Error, "list")
		pkg.WriteJSONError(w, "failed to get projects tech", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONOK(w, DistinctTech(projects))
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.get")
	defer span.End()

	id, ok := projectID(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("project.id", id))

	project, err := handler.repo.Get(ctx, id)
	if err != nil {
		handler.writeRepoError(w, "get", id, err)
		span.SetStatus(codes.Error, "get")
		return
	}

	pkg.WriteJSONOK(w, project)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.add")
	defer span.End()

	in, ok := decodeInput(w, r)
	if !ok {
		span.SetStatus(codes.Error, "bad-request")
		return
	}

	added, err := handler.repo.Add(ctx, in.toProject(0))
	if err != nil {
		log.Errorf("failed to add new project [%s]: %s", in.Title, err)
		span.SetStatus(codes.Error, "add")
		span.RecordError(err)
		pkg.WriteJSONError(w, "failed to add project", http.StatusInternalServerError)
		return
	}
	handler.invalidateCache()

	log.Debugf("new project added: [%s]: %d", added.Title, added.ID)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.update")
	defer span.End()

	id, ok := projectID(w, r)
	if !ok {
		return
	}
	var patch Patch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&patch); err != nil {
		log.Debugf("decode project patch: %s", err)
		span.SetStatus(codes.Error, "bad-request")
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	current, err := handler.repo.Get(ctx, id)
	if err != nil {
		handler.writeRepoError(w, "update", id, err)
		span.SetStatus(codes.Error, "get")
		return
	}

	in := patch.Apply(*current).Normalize()
	if err := in.Validate(); err != nil {
		span.SetStatus(codes.Error, "bad-request")
		pkg.WriteJSONValidationError(w, err)
		return
	}

	updated, err := handler.repo.Update(ctx, in.toProject(id))
	if err != nil {
		handler.writeRepoError(w, "update", id, err)
		span.SetStatus(codes.Error, "update")
		return
	}
	handler.invalidateCache()

	log.Debugf("project updated: [%s]: %d", updated.Title, updated.ID)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONOK(w, updated)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "projectHandler.delete")
	defer span.End()

	id, ok := projectID(w, r)
	if !ok {
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		handler.writeRepoError(w, "delete", id, err)
		span.SetStatus(codes.Error, "delete")
		return
	}
	handler.invalidateCache()

	log.Debugf("project %d deleted", id)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONMessage(w, "project deleted", http.StatusOK)
}

func (handler *Handler) writeRepoError(w http.ResponseWriter, op string, id int64, err error) {
	if errors.Is(err, ErrProjectNotFound) {
		pkg.WriteJSONError(w, "project not found", http.StatusNotFound)
		return
	}
	log.Errorf("failed to %s project %d: %s", op, id, err)
	pkg.WriteJSONError(w, "failed to "+op+" project", http.StatusInternalServerError)
}

func projectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		pkg.WriteJSONError(w, "invalid project id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decodeInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var in Input
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&in); err != nil {
		log.Debugf("decode project input: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return Input{}, false
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		pkg.WriteJSONValidationError(w, err)
		return Input{}, false
	}
	return in, true
}
