// tantfant serves two-phase tic-tac-toe over HTTP, or plays it in the terminal.
package main

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "net"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "go.uber.org/zap"

    "github.com/jaminalder/tant-fant/internal/app"
    "github.com/jaminalder/tant-fant/internal/config"
    "github.com/jaminalder/tant-fant/internal/session"
    "github.com/jaminalder/tant-fant/internal/termui"
    "github.com/jaminalder/tant-fant/internal/web"
)

var (
    configPath = flag.String("config", "", "Path to a YAML config file (default: search XDG config dirs for "+config.RelPath+")")
    listen     = flag.String("listen", "", "Address to serve on, overrides the config file")
    play       = flag.Bool("play", false, "Play in the terminal instead of serving HTTP")
)

func main() {
    flag.Parse()

    if *play {
        if err := termui.Run(session.New(), os.Stdin, termui.NewRenderer(os.Stdout)); err != nil {
            fmt.Fprintln(os.Stderr, err)
            os.Exit(1)
        }
        return
    }

    cfg, err := config.Load(config.Locate(*configPath))
    if err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(1)
    }
    if *listen != "" {
        cfg.Listen = *listen
    }
    log, err := cfg.Logger()
    if err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(1)
    }
    defer log.Sync()

    if err := serve(cfg, log); err != nil {
        log.Fatal("server stopped", zap.Error(err))
    }
}

func serve(cfg *config.Config, log *zap.Logger) error {
    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    svc := app.NewService(log.Named("app"))
    svc.SetSubscriberBuffer(cfg.SubscriberBuffer)
    srv := &http.Server{
        Addr: cfg.Listen,
        Handler: web.NewServer(svc,
            web.WithLogger(log.Named("web")),
            web.WithHeartbeat(cfg.Heartbeat),
            web.WithAllowedOrigins(cfg.AllowedOrigins),
        ),
        // streaming handlers end with the request context on shutdown
        BaseContext: func(net.Listener) context.Context { return ctx },
    }

    errc := make(chan error, 1)
    go func() {
        log.Info("starting server", zap.String("listen", cfg.Listen))
        errc <- srv.ListenAndServe()
    }()

    select {
    case err := <-errc:
        return err
    case <-ctx.Done():
    }
    log.Info("shutting down")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        return err
    }
    if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
        return err
    }
    return nil
}
