package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	clienteApp "github.com/davicafu/matafuegos/internal/cliente/application"
	clienteDomain "github.com/davicafu/matafuegos/internal/cliente/domain"
	clienteSQL "github.com/davicafu/matafuegos/internal/cliente/infra/outbound/db/sqlstore"
	"github.com/davicafu/matafuegos/internal/config"
	extintorApp "github.com/davicafu/matafuegos/internal/extintor/application"
	extintorDomain "github.com/davicafu/matafuegos/internal/extintor/domain"
	extintorSQL "github.com/davicafu/matafuegos/internal/extintor/infra/outbound/db/sqlstore"
	"github.com/davicafu/matafuegos/internal/extintor/infra/outbound/sucursales"
	prefsApp "github.com/davicafu/matafuegos/internal/preferences/application"
	prefsDomain "github.com/davicafu/matafuegos/internal/preferences/domain"
	prefsCache "github.com/davicafu/matafuegos/internal/preferences/infra/outbound/cache"
	prefsFile "github.com/davicafu/matafuegos/internal/preferences/infra/outbound/filesystem"
	reportesApp "github.com/davicafu/matafuegos/internal/reportes/application"
	tareaApp "github.com/davicafu/matafuegos/internal/tarea/application"
	tareaDomain "github.com/davicafu/matafuegos/internal/tarea/domain"
	tareaClickHouse "github.com/davicafu/matafuegos/internal/tarea/infra/outbound/analytics/clickhouse"
	tareaMongo "github.com/davicafu/matafuegos/internal/tarea/infra/outbound/db/mongodb"
	tareaSQL "github.com/davicafu/matafuegos/internal/tarea/infra/outbound/db/sqlstore"
	"github.com/davicafu/matafuegos/internal/tarea/infra/outbound/usuarios"
	usuarioApp "github.com/davicafu/matafuegos/internal/usuario/application"
	usuarioDomain "github.com/davicafu/matafuegos/internal/usuario/domain"
	usuarioSQL "github.com/davicafu/matafuegos/internal/usuario/infra/outbound/db/sqlstore"
	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	sharedEvents "github.com/davicafu/matafuegos/shared/events"
	sharedCache "github.com/davicafu/matafuegos/shared/platform/cache"
	"github.com/davicafu/matafuegos/shared/platform/persistence"
	"github.com/davicafu/matafuegos/shared/platform/persistence/mongostore"
	sharedSQL "github.com/davicafu/matafuegos/shared/platform/persistence/sqlstore"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// app es el grafo de dependencias común a serve y export.
type app struct {
	cfg *config.Config
	log *zap.Logger

	db      *sql.DB
	dialect persistence.Dialect
	cache   sharedCache.Cache
	redis   *redis.Client
	mongo   *mongo.Client

	prefs      *prefsApp.Store
	clientes   *clienteApp.ClienteService
	extintores *extintorApp.ExtintorService
	usuarios   *usuarioApp.UsuarioService
	tareas     *tareaApp.TareaService
	reportes   *reportesApp.ReportesService

	// nil sin ClickHouse configurado.
	analytics tareaDomain.TareaAnalyticsRepository
	// Outbox de cada almacén; con TAREA_STORE=mongo hay dos.
	outboxes []sharedDomain.OutboxRepository

	closers []func()
}

func buildApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	// ---------------- DB ----------------
	a.db, a.dialect, err = persistence.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { a.db.Close() })

	schemas := []struct {
		name string
		init func(context.Context, *sql.DB, persistence.Dialect) error
	}{
		{"clientes", clienteSQL.InitSchema},
		{"extintores", extintorSQL.InitSchema},
		{"usuarios", usuarioSQL.InitSchema},
		{"tareas", tareaSQL.InitSchema},
	}
	for _, s := range schemas {
		if err := s.init(ctx, a.db, a.dialect); err != nil {
			return nil, fmt.Errorf("init schema %s: %w", s.name, err)
		}
	}
	a.outboxes = append(a.outboxes, sharedSQL.NewOutboxRepo(a.db, a.dialect))
	log.Info("✅ Base de datos lista", zap.String("driver", string(a.dialect)))

	// ---------------- Cache ----------------
	a.cache = a.buildCache(ctx)

	// ------------- Preferencias -------------
	var persistenceAdapter prefsDomain.Persistence = prefsFile.NewJSONSettingsFile(cfg.PreferencesPath)
	if a.redis != nil {
		persistenceAdapter = prefsCache.NewCacheSettings(a.cache)
	}
	a.prefs = prefsApp.NewStore(persistenceAdapter, log)
	if err := a.prefs.Init(ctx); err != nil {
		return nil, fmt.Errorf("init preferences: %w", err)
	}

	// --------------- Servicios --------------
	ttl := int(cfg.CacheTTL.Seconds())

	clienteRepo := clienteSQL.NewRepo(a.db, a.dialect)
	a.clientes = clienteApp.NewClienteService(clienteRepo, clienteRepo, a.prefs, log)
	a.extintores = extintorApp.NewExtintorService(extintorSQL.NewExtintorRepo(a.db, a.dialect), sucursales.NewClienteReader(a.clientes), a.prefs, log)
	a.usuarios = usuarioApp.NewUsuarioService(usuarioSQL.NewUsuarioRepo(a.db, a.dialect), a.cache, ttl, a.prefs, log)

	tareaRepo, err := a.buildTareaRepo(ctx)
	if err != nil {
		return nil, err
	}
	a.tareas = tareaApp.NewTareaService(tareaRepo, usuarios.NewUsuarioReader(a.usuarios), a.cache, ttl, a.prefs, log)

	if cfg.ClickHouseAddr != "" {
		chDB, err := tareaClickHouse.Open(ctx, cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { chDB.Close() })
		repo := tareaClickHouse.NewTareaAnalyticsRepo(chDB)
		if err := repo.InitSchema(ctx); err != nil {
			return nil, err
		}
		a.analytics = repo
		log.Info("📊 ClickHouse conectado, reportes de tareas habilitados")
	}
	a.reportes = reportesApp.NewReportesService(a.analytics, a.extintores, log)

	return a, nil
}

// buildCache usa Redis salvo en despliegue local o si no responde.
func (a *app) buildCache(ctx context.Context) sharedCache.Cache {
	if !a.cfg.LocalDeployment {
		rdb := redis.NewClient(&redis.Options{Addr: a.cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			a.log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
			rdb.Close()
		} else {
			a.log.Info("✅ Redis conectado, cache habilitado")
			a.redis = rdb
			a.closers = append(a.closers, func() { rdb.Close() })
			return sharedCache.NewRedisCache(rdb, a.cfg.CacheTTL)
		}
	}
	mem := sharedCache.NewInMemoryCache(a.cfg.CacheTTL, 3*a.cfg.CacheTTL)
	a.closers = append(a.closers, mem.Stop)
	return mem
}

func (a *app) buildTareaRepo(ctx context.Context) (tareaDomain.TareaRepository, error) {
	if a.cfg.TareaStore != "mongo" {
		return tareaSQL.NewTareaRepo(a.db, a.dialect), nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(a.cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	a.mongo = client
	a.closers = append(a.closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	})

	repo, err := tareaMongo.NewTareaRepoMongoDB(ctx, client, a.cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	a.outboxes = append(a.outboxes, mongostore.NewOutboxRepo(client.Database(a.cfg.MongoDB)))
	a.log.Info("✅ MongoDB conectado para tareas", zap.String("db", a.cfg.MongoDB))
	return repo, nil
}

// eventRegistry une los tipos de evento de todos los contextos para el relayer.
func eventRegistry() map[string]sharedEvents.EventMetadata {
	return sharedEvents.MergeRegistries(
		clienteDomain.NewEventRegistry(),
		extintorDomain.NewEventRegistry(),
		usuarioDomain.NewEventRegistry(),
		tareaDomain.NewEventRegistry(),
	)
}

// topics son los topics en los que publica la aplicación.
var topics = []string{
	clienteDomain.ClienteTopic,
	extintorDomain.ExtintorTopic,
	usuarioDomain.UsuarioTopic,
	tareaDomain.TareaTopic,
}

// Close libera los recursos en orden inverso al de apertura.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
