package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/sheetboard/internal/adapters/repository"
	service "github.com/okian/sheetboard/internal/app"
	"github.com/okian/sheetboard/internal/config"
	"github.com/okian/sheetboard/internal/domain/model"
	"github.com/okian/sheetboard/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it serves both modes", func() {
			So(svc.Modes(), ShouldResemble, []model.Mode{model.ModeNormal, model.ModeHard})
		})

		Convey("Then it cannot start without a workbook", func() {
			So(errors.Is(svc.Start(context.Background()), service.ErrNoWorkbook), ShouldBeTrue)
		})

		Convey("Then engines are unavailable before start", func() {
			_, err := svc.Engine(model.ModeNormal)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a service over a memory workbook", t, func() {
		wb := repository.NewMemoryWorkbook()
		svc := service.New(
			service.WithWorkbook("memory", wb),
			service.WithModes(model.ModeHard),
			service.WithLogger(logger.Get()),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)

		Convey("Then it should start successfully", func() {
			So(err, ShouldBeNil)
			So(wb.Titles(), ShouldResemble, []string{"hard"})
		})

		Convey("And it should be marked as started", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["backend"], ShouldEqual, "memory")
			So(stats["modes"], ShouldResemble, []string{"hard"})
		})

		Convey("And a second start is a no-op", func() {
			So(svc.Start(ctx), ShouldBeNil)
		})

		Convey("And modes that are not served are rejected", func() {
			_, err := svc.Standings(ctx, model.ModeNormal)
			So(errors.Is(err, model.ErrUnknownMode), ShouldBeTrue)
		})

		Convey("And stop marks it stopped", func() {
			svc.Stop()
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given a fixed workbook missing a mode", t, func() {
		svc := service.New(service.WithWorkbook("memory", repository.NewMemoryWorkbook("normal")))

		Convey("Then start reports the missing sheet", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, repository.ErrSheetNotFound), ShouldBeTrue)
		})

		Convey("Then no engine from the partial start is kept", func() {
			_ = svc.Start(context.Background())
			stats := svc.GetStats()
			So(stats["started"], ShouldBeFalse)
			So(stats["engines"], ShouldEqual, 0)
		})
	})
}

func TestWiring(t *testing.T) {
	Convey("Given a memory config", t, func() {
		cfg := config.New(context.Background())
		cfg.Backend = config.BackendMemory

		Convey("Then the palette parses", func() {
			p, err := service.Palette(cfg)
			So(err, ShouldBeNil)
			So(p.Solid.Hex(), ShouldEqual, "FFE599")
			So(p.Time.Hex(), ShouldEqual, "C9DAF8")
			So(p.Guess.Hex(), ShouldEqual, "EAD1DC")
			So(p.Clear, ShouldResemble, repository.White)
		})

		Convey("Then a bad color is a config error", func() {
			cfg.TimeColor = "blue"
			_, err := service.EngineOptions(cfg)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Then FromConfig builds a startable service", func() {
			svc, err := service.FromConfig(context.Background(), cfg, logger.Get())
			So(err, ShouldBeNil)
			So(svc.Start(context.Background()), ShouldBeNil)
			defer svc.Stop()
			So(svc.GetStats()["highlightInterval"], ShouldEqual, "5m0s")
		})

		Convey("Then an unknown backend is rejected", func() {
			cfg.Backend = "csv"
			_, err := service.OpenWorkbook(context.Background(), cfg, logger.Get())
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
