// Package main is the entry point for the lumap CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/brandonlukas/lumap/internal/api"
	"github.com/brandonlukas/lumap/internal/cache"
	"github.com/brandonlukas/lumap/internal/config"
	"github.com/brandonlukas/lumap/internal/convert"
	"github.com/brandonlukas/lumap/internal/data/anndata"
	"github.com/brandonlukas/lumap/internal/render"
)

func main() {
	app := &cli.App{
		Name:  "lumap",
		Usage: "Convert single-cell datasets to point-cloud bundles and serve the viewer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config/lumap.yaml",
				Usage: "path to configuration file",
			},
		},
		Commands: []*cli.Command{
			convertCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert an AnnData Zarr store into lumap binary files",
		ArgsUsage: "INPUT_STORE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "output directory for binaries",
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "obs column to use as default colors",
			},
			&cli.StringSliceFlag{
				Name:  "attribute",
				Usage: "additional categorical obs columns",
			},
			&cli.StringFlag{
				Name:  "embedding",
				Usage: "obsm key for embedding (fallback: X_umap/X_tsne/X_pca/X)",
			},
			&cli.BoolFlag{
				Name:  "preview",
				Usage: "also render a preview.png of the bundle",
			},
		},
		Action: func(c *cli.Context) error {
			input := c.Args().First()
			if input == "" {
				return fmt.Errorf("missing INPUT_STORE argument")
			}

			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			outDir := c.String("out")
			if outDir == "" {
				outDir = cfg.Convert.OutDir
			}

			log.Printf("Reading %s ...", input)
			store, err := anndata.Open(input)
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := convert.Run(store, convert.Options{
				EmbeddingKey: c.String("embedding"),
				ColorColumn:  c.String("color"),
				ExtraColumns: c.StringSlice("attribute"),
				OutDir:       outDir,
			})
			if err != nil {
				return err
			}

			log.Printf("Using embedding: %s -> coords.bin", res.EmbeddingKey)
			for _, attr := range res.Bundle.Attributes {
				log.Printf("Attribute %s: %d categories", attr.Name, len(attr.Names))
			}

			if len(res.Bundle.Attributes) == 0 {
				log.Printf("Wrote %d points to %s (no attributes; white points)", res.Bundle.NumPoints, outDir)
			} else {
				log.Printf("Wrote %d points to %s", res.Bundle.NumPoints, outDir)
			}

			if c.Bool("preview") {
				renderer := render.NewPreviewRenderer(render.Config{
					Size:        cfg.Render.PreviewSize,
					PointRadius: cfg.Render.PointRadius,
				})
				png, err := renderer.RenderPreview(res.Bundle.Coords, res.Bundle.DefaultColors)
				if err != nil {
					return fmt.Errorf("failed to render preview: %w", err)
				}
				previewPath := filepath.Join(outDir, "preview.png")
				if err := os.WriteFile(previewPath, png, 0o644); err != nil {
					return fmt.Errorf("failed to write preview: %w", err)
				}
				log.Printf("Wrote preview to %s", previewPath)
			}

			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Serve the viewer against a bundle directory",
		ArgsUsage: "DATA_DIR",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "listen host (default from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "listen port (default from config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "open the viewer in a browser",
			},
		},
		Action: func(c *cli.Context) error {
			dataDir := c.Args().First()
			if dataDir == "" {
				return fmt.Errorf("missing DATA_DIR argument")
			}
			info, err := os.Stat(dataDir)
			if err != nil || !info.IsDir() {
				return fmt.Errorf("data directory not found: %s", dataDir)
			}

			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			host := c.String("host")
			if host == "" {
				host = cfg.Server.Host
			}
			port := c.Int("port")
			if port == 0 {
				port = cfg.Server.Port
			}

			cacheManager, err := cache.NewManager(cache.Config{
				PayloadCacheSizeMB: cfg.Cache.PayloadSizeMB,
				PayloadTTL:         time.Duration(cfg.Cache.PayloadTTLMinutes) * time.Minute,
				QueryCacheSize:     cfg.Cache.QueryCacheSize,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize cache: %w", err)
			}
			defer cacheManager.Close()

			router := api.NewRouter(api.RouterConfig{
				DataDir:     dataDir,
				CORSOrigins: cfg.Server.CORSOrigins,
				Cache:       cacheManager,
			})

			server := &http.Server{
				Addr:         fmt.Sprintf("%s:%d", host, port),
				Handler:      router,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  120 * time.Second,
			}

			go func() {
				log.Printf("Serving data from %s", dataDir)
				log.Printf("Viewer ready: http://localhost:%d", port)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Server failed: %v", err)
				}
			}()

			if c.Bool("open") {
				urlHost := host
				if host == "0.0.0.0" || host == "127.0.0.1" {
					urlHost = "localhost"
				}
				openBrowser(fmt.Sprintf("http://%s:%d", urlHost, port))
			}

			// Wait for interrupt signal
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			log.Println("Shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("Server forced to shutdown: %v", err)
			}

			log.Println("Server stopped")
			return nil
		},
	}
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
