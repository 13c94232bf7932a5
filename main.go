package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/joho/godotenv"

	"github.com/example/storefront/modules/auth"
	"github.com/example/storefront/modules/cache"
	"github.com/example/storefront/modules/cart"
	"github.com/example/storefront/modules/catalog"
	"github.com/example/storefront/modules/checkout"
	"github.com/example/storefront/modules/images"
	"github.com/example/storefront/modules/shop"
	"github.com/example/storefront/modules/storage"
	"github.com/example/storefront/modules/web"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	storageMod := storage.NewModule()
	authMod := auth.NewModule(storageMod)
	catalogMod := catalog.NewModule(storageMod)
	shopMod := shop.NewModule(storageMod)
	cartMod := cart.NewModule(catalogMod)
	imagesMod := images.NewModule()
	checkoutMod := checkout.NewModule(storageMod, catalogMod, shopMod, cartMod)

	var cacheMod *cache.Module
	if os.Getenv("CACHE_DISABLED") != "1" {
		cacheMod = cache.NewModule()
	}

	webMod := web.NewModule(authMod, catalogMod, shopMod, cartMod, checkoutMod, imagesMod, cacheMod)

	app.Register(storageMod)
	app.Register(authMod)
	app.Register(catalogMod)
	app.Register(shopMod)
	app.Register(cartMod)
	app.Register(imagesMod)
	if cacheMod != nil {
		app.Register(cacheMod)
	}
	app.Register(checkoutMod)
	app.Register(webMod)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
	log.Println("Storefront started")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}
