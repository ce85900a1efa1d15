package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bistrokit/bistrokit/config"
	"github.com/bistrokit/bistrokit/internal/adminapi"
	"github.com/bistrokit/bistrokit/internal/app"
	"github.com/bistrokit/bistrokit/internal/catalog"
	"github.com/bistrokit/bistrokit/internal/customerapi"
	"github.com/bistrokit/bistrokit/internal/notify"
	"github.com/bistrokit/bistrokit/internal/ordering"
	"github.com/bistrokit/bistrokit/internal/payment"
	"github.com/bistrokit/bistrokit/internal/staffapi"
	"github.com/bistrokit/bistrokit/internal/webserver"
	"github.com/bistrokit/bistrokit/pkg/common"
	"github.com/bistrokit/bistrokit/pkg/qrlink"
	"github.com/bistrokit/bistrokit/pkg/storage"
)

var (
	cfile   = flag.String("c", "bistrokit.yml", "config file")
	initdb  = flag.Bool("initdb", false, "drop and recreate the database schema")
	showVer = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println(version)
		return
	}

	_ = godotenv.Load()
	cfg := config.LoadConfig(*cfile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database schema recreated")
		return
	}

	repo := ordering.NewGormOrderRepository(application.DB(), application.Location())
	orderSvc := ordering.NewService(application.DB(), repo, application.Bus())
	reader := catalog.NewReader(application.DB())
	images := storage.NewImageStore(cfg.Web.UploadDir)
	checkout := payment.NewClient(cfg.Payment)

	notifier := notify.New(application)
	if err := notifier.Subscribe(application.Bus()); err != nil {
		zap.S().Errorf("notifier subscribe failed: %v", err)
	}

	// The restaurant-wide QR points walk-ins at the order-type chooser.
	if !common.FileExists(filepath.Join(cfg.Web.UploadDir, qrlink.MainQRName)) {
		if _, err := qrlink.WriteFile(cfg.Web.UploadDir, qrlink.MainQRName,
			fmt.Sprintf("%s/choose-order-type", cfg.Web.PublicURL)); err != nil {
			zap.S().Warnf("main QR generation failed: %v", err)
		}
	}

	customerapi.InitRouter(orderSvc, reader, checkout)
	staffapi.InitRouter(orderSvc)
	adminapi.InitRouter(images)

	server := webserver.Init(application)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application.StartBackgroundJobs(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		return server.Shutdown(10 * time.Second)
	})

	if err := g.Wait(); err != nil {
		zap.S().Errorf("server stopped: %v", err)
	}
}
