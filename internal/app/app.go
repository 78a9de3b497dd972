package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"hotelier/internal/booking"
	"hotelier/internal/config"
	"hotelier/internal/logger"
	"hotelier/internal/report"
	"hotelier/internal/seed"
	"hotelier/internal/storage/file"
)

type Options struct {
	// Report dumps the datastore contents to stdout after startup.
	Report bool
}

func Run(l *logger.Logger, opts Options) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	if err := godotenv.Load(); err != nil {
		l.LogInfo("No .env file loaded: %v", err.Error())
	}

	conf, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if conf.Tracing {
		shutdown, err := setupTracing()
		if err != nil {
			return fmt.Errorf("setup tracing: %w", err)
		}

		defer func() {
			if err := shutdown(context.Background()); err != nil {
				l.LogErrorf("Failed to shut down tracer provider: %v", err.Error())
			}
		}()
	}

	if err := os.MkdirAll(conf.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir %q: %w", conf.DataDir, err)
	}

	hotels, err := file.OpenHotelStore(file.Config{L: l, Path: conf.HotelsPath()})
	if err != nil {
		return fmt.Errorf("open hotel store: %w", err)
	}

	users, err := file.OpenUserStore(file.Config{L: l, Path: conf.UsersPath()})
	if err != nil {
		return fmt.Errorf("open user store: %w", err)
	}

	l.LogInfo(
		"Stores opened: hotels fresh=%v (%v), users fresh=%v (%v)",
		hotels.Fresh(), conf.HotelsPath(),
		users.Fresh(), conf.UsersPath(),
	)

	manager := booking.New(l, hotels, users)

	if hotels.Fresh() && users.Fresh() {
		if err := seed.Up(ctx, l, manager); err != nil {
			return fmt.Errorf("apply seed data: %w", err)
		}
	}

	if opts.Report {
		if err := report.Hotels(os.Stdout, manager.Hotels(ctx)); err != nil {
			return fmt.Errorf("report hotels: %w", err)
		}

		if err := report.Users(os.Stdout, manager.Users(ctx)); err != nil {
			return fmt.Errorf("report users: %w", err)
		}
	}

	return nil
}

// setupTracing installs a stdout exporter; spans created by the booking
// manager are pretty-printed to stderr until a real collector is wired.
func setupTracing() (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(os.Stderr),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("init stdout trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
