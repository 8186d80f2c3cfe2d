package misc

import (
	"net/http"
	"time"

	"github.com/2beens/portfolio/pkg"

	"github.com/gorilla/mux"
)

type Handler struct {
	versionInfo string
	startedAt   time.Time
}

type versionResponse struct {
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

func NewHandler(versionInfo string) *Handler {
	if versionInfo == "" {
		versionInfo = "unknown"
	}
	return &Handler{
		versionInfo: versionInfo,
		startedAt:   time.Now(),
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET", "OPTIONS").Name("version")
}

func PublicRoutes() []string {
	return []string{"root", "version"}
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "API running")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONOK(w, versionResponse{
		Version: handler.versionInfo,
		Uptime:  time.Since(handler.startedAt).Truncate(time.Second).String(),
	})
}
