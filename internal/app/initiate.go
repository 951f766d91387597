package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	libOTP "github.com/pquerna/otp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/clock"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/config"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/goroutine"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/keystore"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/otp"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/router"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/storage"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/uid"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/validator"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/outbound/snapshot"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/outbound/store"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

func (a *App) initConfig(flagPath string) {
	path := ConfigPath(flagPath)

	cfg, err := config.NewViper(path, Defaults())
	if err != nil {
		slog.Error("failed to init config", "path", path, "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	a.config = cfg
	a.paths = ResolvePaths(cfg)
}

func (a *App) initInstrument() {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins

	slog.Info("paths resolved",
		"profile", a.config.GetString("deploy.profile"),
		"private_key", a.paths.PrivateKeyFile,
		"seed_file", a.paths.SeedFile,
		"snapshot_file", a.paths.SnapshotFile,
	)
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.keys = keystore.NewFile(a.paths.PrivateKeyFile)

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	a.totp = otp.NewTOTP(
		a.config.GetUint("totp.period"),
		a.config.GetUint("totp.skew"),
		libOTP.DigitsSix,
	)
}

func (a *App) initSeedStore() {
	driver := strings.ToLower(strings.TrimSpace(a.config.GetString("seed.driver")))
	attempts := uint64(max(a.config.GetInt("seed.connect_attempts"), 1))

	switch driver {
	case store.DriverFile:
		a.seedStore = store.NewFile(a.paths.SeedFile, a.ins)

	case store.DriverRedis:
		opt, err := redis.ParseURL(a.config.GetString("seed.redis.url"))
		if err != nil {
			slog.Error("failed to parse redis url", "error", err)
			os.Exit(1)
		}

		st := store.NewRedis(redis.NewClient(opt), a.config.GetString("seed.redis.key"), a.ins)
		if err := probe(a.ctx, "redis", attempts, st.Ping); err != nil {
			slog.Error("failed to init redis", "error", err)
			os.Exit(1)
		}
		a.seedStore = st

	case store.DriverPostgres:
		cfg, err := pgxpool.ParseConfig(a.config.GetString("seed.postgres.url"))
		if err != nil {
			slog.Error("failed to parse DB connection string.", "error", err)
			os.Exit(1)
		}
		if v := a.config.GetInt("seed.postgres.max_conns"); v > 0 {
			cfg.MaxConns = int32(min(v, 1<<15)) //nolint:gosec // bounded above
		}

		pool, err := pgxpool.NewWithConfig(a.ctx, cfg)
		if err != nil {
			slog.Error("failed to create DB connection pool", "error", err)
			os.Exit(1)
		}

		st := store.NewPostgres(pool, a.config.GetString("seed.postgres.slot"), a.ins)
		if err := probe(a.ctx, "postgres", attempts, st.Ping); err != nil {
			slog.Error("failed to ping DB", "error", err)
			os.Exit(1)
		}
		if a.config.GetBool("seed.postgres.auto_migrate") {
			if err := st.Migrate(a.ctx); err != nil {
				slog.Error("failed to migrate seed table", "error", err)
				os.Exit(1)
			}
		}
		a.seedStore = st

	case store.DriverObject:
		st := store.NewObject(a.newBucket(), strings.TrimSpace(a.config.GetString("seed.object.key")), a.ins)
		if err := probe(a.ctx, "object storage", attempts, st.Ping); err != nil {
			slog.Error("failed to reach seed bucket", "error", err)
			os.Exit(1)
		}
		a.seedStore = st

	default:
		slog.Error("unknown seed driver", "driver", driver, "supported", store.Drivers)
		os.Exit(1)
	}

	slog.Info("seed store ready", "driver", driver)
}

func (a *App) newBucket() storage.Bucket {
	driver := strings.TrimSpace(a.config.GetString("storage.driver"))

	var gcsOptions []option.ClientOption
	if driver == storage.DriverGCS {
		if a.config.GetBool("storage.gcs.without_auth") {
			gcsOptions = append(gcsOptions, option.WithoutAuthentication())
		}
		if v := strings.TrimSpace(a.config.GetString("storage.gcs.credentials_file")); v != "" {
			// #nosec G304 -- path is from trusted config file.
			credsJSON, err := os.ReadFile(v)
			if err != nil {
				slog.Error("failed to read gcs credentials file", "error", err)
				os.Exit(1)
			}
			creds, err := google.CredentialsFromJSON(a.ctx, credsJSON, gcs.ScopeReadWrite)
			if err != nil {
				slog.Error("failed to parse gcs credentials file", "error", err)
				os.Exit(1)
			}
			gcsOptions = append(gcsOptions, option.WithCredentials(creds))
		}
		if v := strings.TrimSpace(a.config.GetString("storage.gcs.endpoint")); v != "" {
			gcsOptions = append(gcsOptions, option.WithEndpoint(v))
		}
	}

	bucket, err := storage.Open(a.ctx, storage.Options{
		Driver: driver,
		Bucket: a.config.GetString("seed.object.bucket"),
		S3: storage.S3Options{
			Region:               strings.TrimSpace(a.config.GetString("storage.s3.region")),
			Endpoint:             strings.TrimSpace(a.config.GetString("storage.s3.endpoint")),
			AccessKey:            strings.TrimSpace(a.config.GetString("storage.s3.access_key")),
			SecretKey:            strings.TrimSpace(a.config.GetString("storage.s3.secret_key")),
			SessionToken:         strings.TrimSpace(a.config.GetString("storage.s3.session_token")),
			UsePathStyle:         a.config.GetBool("storage.s3.use_path_style"),
			ServerSideEncryption: a.config.GetBool("storage.s3.server_side_encryption"),
		},
		GCS: storage.GCSOptions{
			ClientOptions: gcsOptions,
		},
		MinIO: storage.MinIOOptions{
			Region:       strings.TrimSpace(a.config.GetString("storage.minio.region")),
			Endpoint:     strings.TrimSpace(a.config.GetString("storage.minio.endpoint")),
			AccessKey:    strings.TrimSpace(a.config.GetString("storage.minio.access_key")),
			SecretKey:    strings.TrimSpace(a.config.GetString("storage.minio.secret_key")),
			SessionToken: strings.TrimSpace(a.config.GetString("storage.minio.session_token")),
			UseSSL:       a.config.GetBool("storage.minio.use_ssl"),
		},
	})
	if err != nil {
		slog.Error("failed to init storage", "error", err, "driver", driver)
		os.Exit(1)
	}

	return bucket
}

func (a *App) initSnapshot() {
	a.snapshot = snapshot.NewFile(a.paths.SnapshotFile, a.ins)
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []closer{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "SeedStore",
			fn: func(context.Context) error {
				return a.seedStore.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
