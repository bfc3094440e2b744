// Command fsmhdlsrv runs an HTTP server around the fsm compile pipeline:
// POST a Drawflow-style document, get back synthesized VHDL plus the
// diagnostic trail.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ingsock/Chartonics/fsm"
	"github.com/ingsock/Chartonics/fsm/diag"
	"github.com/ingsock/Chartonics/fsm/store"
)

var (
	addr       = flag.String("addr", ":8080", "listen address")
	entityFlag = flag.String("entity", "fsm_top", "default VHDL entity name")
	dbPath     = flag.String("sqlite", "", "path to a sqlite file for compile-run archiving; empty keeps archived runs in memory only")
)

type server struct {
	log     *zap.SugaredLogger
	metrics *fsm.PrometheusMetrics
	tracer  trace.Tracer
	runs    store.Store
	entity  string
}

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	registry := prometheus.NewRegistry()
	metrics := fsm.NewPrometheusMetrics(registry)

	var runs store.Store = store.NewMemStore()
	if *dbPath != "" {
		sq, err := store.NewSQLiteStore(*dbPath)
		if err != nil {
			log.Fatalf("opening sqlite store at %s: %v", *dbPath, err)
		}
		defer sq.Close()
		runs = sq
	}

	srv := &server{
		log:     log,
		metrics: metrics,
		tracer:  otel.Tracer("fsmhdlsrv"),
		runs:    runs,
		entity:  *entityFlag,
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", srv.handleHealthz).Methods(http.MethodGet)
	router.HandleFunc("/api/compile", srv.handleCompile).Methods(http.MethodPost)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/api/runs/{runID}", srv.handleGetRun).Methods(http.MethodGet)

	handler := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(router)

	httpServer := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Infof("listening on %s", *addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type compileRequest struct {
	Document   json.RawMessage `json:"document"`
	EntityName string          `json:"entityName"`
	Archive    bool            `json:"archive"`
}

type compileResponse struct {
	RunID       string            `json:"runID"`
	VHDL        string            `json:"vhdl"`
	Diagnostics []diagView        `json:"diagnostics"`
}

type diagView struct {
	Stage  string                 `json:"stage"`
	Code   string                 `json:"code"`
	NodeID string                 `json:"nodeID,omitempty"`
	Msg    string                 `json:"msg"`
	Meta   map[string]interface{} `json:"meta,omitempty"`
}

func (s *server) handleCompile(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 4<<20))
	if err != nil {
		http.Error(w, "reading body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var req compileRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid request JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Document) == 0 {
		http.Error(w, "document is required", http.StatusBadRequest)
		return
	}

	entity := req.EntityName
	if entity == "" {
		entity = s.entity
	}

	buf := diag.NewBufferedEmitter()
	result, err := fsm.Compile(r.Context(), fsm.Document(req.Document),
		fsm.WithEntityName(entity),
		fsm.WithEmitter(buf),
		fsm.WithMetrics(s.metrics),
		fsm.WithTracer(s.tracer),
	)
	if err != nil {
		http.Error(w, "compile: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Archive {
		run := store.CompiledRun{
			RunID:       result.RunID,
			EntityName:  result.EntityName,
			VHDL:        result.VHDL,
			Diagnostics: result.Diagnostics,
			CreatedAt:   time.Now(),
		}
		if err := s.runs.SaveRun(r.Context(), run); err != nil {
			s.log.Errorw("archiving compile run", "runID", result.RunID, "error", err)
		}
	}

	resp := compileResponse{RunID: result.RunID, VHDL: result.VHDL}
	for _, d := range result.Diagnostics {
		resp.Diagnostics = append(resp.Diagnostics, diagView{
			Stage: string(d.Stage), Code: string(d.Code), NodeID: d.NodeID, Msg: d.Msg, Meta: d.Meta,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["runID"]
	run, err := s.runs.GetRun(r.Context(), runID)
	if err != nil {
		if err == store.ErrNotFound {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		http.Error(w, "fetching run: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}
