package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	clienteHTTP "github.com/davicafu/matafuegos/internal/cliente/infra/inbound/http"
	extintorApp "github.com/davicafu/matafuegos/internal/extintor/application"
	extintorHTTP "github.com/davicafu/matafuegos/internal/extintor/infra/inbound/http"
	prefsHTTP "github.com/davicafu/matafuegos/internal/preferences/infra/inbound/http"
	reportesHTTP "github.com/davicafu/matafuegos/internal/reportes/infra/inbound/http"
	tareaDomain "github.com/davicafu/matafuegos/internal/tarea/domain"
	tareaEvents "github.com/davicafu/matafuegos/internal/tarea/infra/inbound/events"
	tareaHTTP "github.com/davicafu/matafuegos/internal/tarea/infra/inbound/http"
	usuarioDomain "github.com/davicafu/matafuegos/internal/usuario/domain"
	usuarioEvents "github.com/davicafu/matafuegos/internal/usuario/infra/inbound/events"
	usuarioHTTP "github.com/davicafu/matafuegos/internal/usuario/infra/inbound/http"
	sharedBus "github.com/davicafu/matafuegos/shared/platform/bus"
	"github.com/davicafu/matafuegos/shared/platform/relayer"
	"github.com/davicafu/matafuegos/shared/platform/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const consumerGroup = "matafuegos"

func newServeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP, el relayer del outbox, los consumidores y el cron de vencimientos",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rt)
		},
	}
}

func serve(ctx context.Context, rt *runtime) error {
	cfg, log := rt.cfg, rt.log

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	// ---------------- Events ---------------
	publisher, err := startEvents(ctx, a)
	if err != nil {
		return err
	}

	// ------------ Outbox Worker ------------
	registry := eventRegistry()
	for _, outbox := range a.outboxes {
		w := relayer.NewOutboxWorker(outbox, publisher, registry, cfg.OutboxPeriod, cfg.OutboxLimit, log)
		go w.Start(ctx)
	}

	// ---------------- Cron ----------------
	sched := scheduler.New(log, time.Local)
	scanner := extintorApp.NewVencimientoScanner(a.extintores, publisher, cfg.VencimientosDias, log)
	if _, err := sched.Add(ctx, "vencimientos", cfg.VencimientosCron, scanner.Run); err != nil {
		return err
	}
	sched.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sched.Stop(stopCtx)
	}()

	// ---------------- HTTP ----------------
	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: newRouter(a)}
	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 Server running", zap.String("url", "http://localhost:"+cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("🛑 Apagando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// startEvents arma el bus (Kafka o canales en memoria, un bus por topic) y arranca los consumidores.
func startEvents(ctx context.Context, a *app) (sharedBus.EventPublisher, error) {
	cfg, log := a.cfg, a.log

	usuarioConsumer := usuarioEvents.NewUsuarioConsumer(a.usuarios, log)
	tareaConsumer := tareaEvents.NewTareaConsumer(a.tareas, log)
	handlers := map[string][]sharedBus.MessageHandler{
		usuarioDomain.UsuarioTopic: {usuarioConsumer},
		tareaDomain.TareaTopic:     {tareaConsumer},
	}
	if a.analytics != nil {
		analytics := tareaEvents.NewAnalyticsConsumer(a.analytics, 0, 0, log)
		analytics.Start(ctx)
		handlers[tareaDomain.TareaTopic] = append(handlers[tareaDomain.TareaTopic], analytics)
	}

	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos", zap.Strings("brokers", cfg.KafkaBrokers))
		writer := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		}
		a.closers = append(a.closers, func() { writer.Close() })

		for topic, hs := range handlers {
			for _, h := range hs {
				// Un grupo por consumidor para que cada uno reciba todos los eventos del topic.
				reader := sharedBus.NewReader(cfg.KafkaBrokers, topic, consumerGroup+"-"+groupSuffix(h))
				a.closers = append(a.closers, func() { reader.Close() })
				sharedBus.NewConsumerAdapter(reader, h, log).Start(ctx)
			}
		}
		return sharedBus.NewRouter(sharedBus.NewKafkaPublisher(writer, log)), nil
	}

	log.Info("⚡️Usando bus de eventos en memoria (canales de Go)")
	router := sharedBus.NewRouter(nil)
	for _, topic := range topics {
		b := sharedBus.NewInMemoryEventBus(topic)
		router.Route(topic, b)
		for _, h := range handlers[topic] {
			log.Info("🎧 Iniciando listener en memoria", zap.String("topic", topic))
			sharedBus.BackgroundConsumerChan(ctx, b.Subscribe(100), h, log)
		}
	}
	return router, nil
}

func groupSuffix(h sharedBus.MessageHandler) string {
	switch h.(type) {
	case *usuarioEvents.UsuarioConsumer:
		return "usuarios"
	case *tareaEvents.TareaConsumer:
		return "tareas"
	case *tareaEvents.AnalyticsConsumer:
		return "analytics"
	}
	return "default"
}

func newRouter(a *app) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(a.log))

	clienteHTTP.RegisterClienteRoutes(router, clienteHTTP.NewClienteHandler(a.clientes))
	extintorHTTP.RegisterExtintorRoutes(router, extintorHTTP.NewExtintorHandler(a.extintores))
	usuarioHTTP.RegisterUsuarioRoutes(router, usuarioHTTP.NewUsuarioHandler(a.usuarios))
	tareaHTTP.RegisterTareaRoutes(router, tareaHTTP.NewTareaHandler(a.tareas))
	prefsHTTP.RegisterPreferencesRoutes(router, prefsHTTP.NewPreferencesHandler(a.prefs))
	reportesHTTP.RegisterReportesRoutes(router, reportesHTTP.NewReportesHandler(a.reportes))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

// requestLogger registra cada request con zap.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("HTTP request", fields...)
			return
		}
		log.Debug("HTTP request", fields...)
	}
}
