package main

import (
	"flag"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	httpadapter "svw.info/tacticsfeed/internal/adapters/http"
	"svw.info/tacticsfeed/internal/catalog"
	"svw.info/tacticsfeed/internal/config"
	"svw.info/tacticsfeed/internal/feed"
	"svw.info/tacticsfeed/internal/onboarding"
	"svw.info/tacticsfeed/internal/ports"
	"svw.info/tacticsfeed/internal/rules"
	"svw.info/tacticsfeed/internal/infrastructure/storage"
	"svw.info/tacticsfeed/internal/usecase"
	"svw.info/tacticsfeed/web"
)

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// openStore selects the key-value store by name. Unknown names are an
// error so a typo cannot silently land on the wrong store.
func openStore(kind, dir string, log *zap.SugaredLogger) (ports.KeyValue, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "memory", "mem":
		return storage.NewMemory(), nil
	case "badger", "":
		b, err := storage.NewBadger(dir)
		if err != nil {
			// Non-fatal: the onboarding flag just won't survive restarts.
			log.Warnw("badger open failed, flag will not persist", "dir", dir, "err", err)
			return storage.NewMemory(), nil
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown store %q (want badger or memory)", kind)
	}
}

// requestLogger logs method, path, status, bytes, and duration.
func requestLogger(log *zap.SugaredLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		log.Infow("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"bytes", sw.bytes,
			"dur", time.Since(start).Round(time.Millisecond),
		)
	})
}

func main() {
	addr := flag.String("addr", "", "listen address (overrides config)")
	cfgPath := flag.String("config", "", "optional YAML config file")
	dataDir := flag.String("data-dir", "", "key-value store directory (overrides config)")
	storeKind := flag.String("store", "", "store to use: badger|memory (overrides config)")
	logMode := flag.String("log-mode", "", "dev|prod (overrides config)")
	flag.Parse()

	cfg, cfgErr := config.Load(*cfgPath)
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *storeKind != "" {
		cfg.Store = *storeKind
	}
	if *logMode != "" {
		cfg.LogMode = *logMode
	}

	var zcfg zap.Config
	switch strings.ToLower(cfg.LogMode) {
	case "prod", "production":
		zcfg = zap.NewProductionConfig()
	default:
		zcfg = zap.NewDevelopmentConfig()
	}
	zl, err := zcfg.Build()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()
	log := zl.Sugar()

	if cfgErr != nil {
		log.Warnw("config file not loaded, using defaults", "path", *cfgPath, "err", cfgErr)
	}

	defs, err := catalog.Load()
	if err != nil {
		log.Fatalw("catalog load failed", "err", err)
	}

	kv, err := openStore(cfg.Store, cfg.DataDir, log)
	if err != nil {
		log.Fatalw("store selection failed", "err", err)
	}
	defer func() { _ = kv.Close() }()

	// Wire providers → use cases → HTTP adapter
	fc := feed.NewController(defs, rules.NewFactory(log), feed.Config{
		InitialPages: cfg.Feed.InitialPages,
		Lookahead:    cfg.Feed.Lookahead,
		AppendDelay:  time.Duration(cfg.Feed.AppendDelayMs) * time.Millisecond,
		AdvanceDelay: time.Duration(cfg.Feed.AdvanceDelayMs) * time.Millisecond,
	}, log)
	gate := onboarding.NewGate(kv, log)
	uc := usecase.NewService(fc, gate, log)
	h := httpadapter.New(uc)

	tmpl := web.Templates()

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(web.StaticFS())))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := map[string]any{
			"ViewFraction":   cfg.Feed.ViewFraction,
			"AdvanceDelayMs": cfg.Feed.AdvanceDelayMs,
		}
		if err := tmpl.ExecuteTemplate(w, "index.tmpl", data); err != nil {
			http.Error(w, template.HTMLEscapeString(err.Error()), http.StatusInternalServerError)
		}
	})
	h.Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           requestLogger(log, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Infow("listening", "addr", cfg.Addr, "store", cfg.Store, "puzzles", len(defs))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalw("server error", "err", err)
	}
}
