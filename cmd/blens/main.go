// File path: cmd/blens/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nicodishanthj/Batchlens_phase1/internal/api"
	"github.com/nicodishanthj/Batchlens_phase1/internal/catalog"
	"github.com/nicodishanthj/Batchlens_phase1/internal/common"
	"github.com/nicodishanthj/Batchlens_phase1/internal/docgen"
	"github.com/nicodishanthj/Batchlens_phase1/internal/graph"
	"github.com/nicodishanthj/Batchlens_phase1/internal/ingest"
	"github.com/nicodishanthj/Batchlens_phase1/internal/llm"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("blens: .env file not loaded", "error", err)
	} else {
		logger.Info("blens: environment loaded from .env")
	}

	apiCfg := api.LoadConfig()
	blocksDir := flag.String("blocks", envOr("BLENS_BLOCKS_DIR", ""), "directory of block record files (json/jsonl)")
	stepsDir := flag.String("steps", envOr("BLENS_STEPS_DIR", ""), "directory of step record files (json/jsonl)")
	docsDir := flag.String("out", apiCfg.DocsDir, "directory for generated documentation")
	addr := flag.String("addr", apiCfg.Addr, "listen address")
	catalogPath := flag.String("catalog", envOr("BLENS_SQLITE_PATH", defaultCatalogPath()), "path to the SQLite catalog database")
	generateDocs := flag.Bool("docs", envBool("BLENS_DOCS", false), "generate documentation after the build")
	reverseDocs := flag.Bool("reverse", envBool("BLENS_DOCS_REVERSE", true), "document callees before callers")
	serve := flag.Bool("serve", envBool("BLENS_SERVE", false), "serve the model over HTTP after the build")
	flag.Parse()

	logger.Info("blens: startup initiated", "blocks", *blocksDir, "steps", *stepsDir, "catalog", *catalogPath)

	if strings.TrimSpace(*blocksDir) == "" {
		logger.Error("blens: no block record directory given")
		fmt.Println("usage: blens -blocks <dir> [-steps <dir>] [-docs] [-serve]")
		os.Exit(1)
	}

	blocks, err := ingest.LoadBlockRecords(ctx, *blocksDir)
	if err != nil {
		logger.Error("blens: block ingest failed", "error", err)
		fmt.Println("ingest error:", err)
		os.Exit(1)
	}
	var steps []ingest.StepRecord
	if strings.TrimSpace(*stepsDir) != "" {
		steps, err = ingest.LoadStepRecords(ctx, *stepsDir)
		if err != nil {
			logger.Error("blens: step ingest failed", "error", err)
			fmt.Println("ingest error:", err)
			os.Exit(1)
		}
	}
	logger.Info("blens: records loaded", "blocks", len(blocks), "steps", len(steps))

	model := graph.Build(blocks, steps)
	logger.Info(
		"blens: model built",
		"outer_nodes", model.Outer.NodeCount(),
		"inner_graphs", len(model.Inner),
		"issues", len(model.Issues),
	)

	store, err := catalog.Open(*catalogPath)
	if err != nil {
		logger.Error("blens: catalog open failed", "path", *catalogPath, "error", err)
		fmt.Println("catalog error:", err)
		os.Exit(1)
	}
	defer store.Close()
	if err := store.SaveModel(ctx, model); err != nil {
		logger.Error("blens: catalog persist failed", "error", err)
		fmt.Println("catalog error:", err)
		os.Exit(1)
	}

	var provider llm.Provider
	if *generateDocs || *serve {
		provider = llm.NewProvider()
	}

	if *generateDocs {
		direction := docgen.DirectionReverse
		if !*reverseDocs {
			direction = docgen.DirectionForward
		}
		gen := docgen.New(provider, *docsDir)
		result, err := gen.Run(ctx, model, direction)
		if err != nil {
			logger.Error("blens: documentation run failed", "error", err)
			fmt.Println("docgen error:", err)
			os.Exit(1)
		}
		logger.Info("blens: documentation generated", "documents", len(result.Documents), "out", *docsDir)
	}

	if !*serve {
		logger.Info("blens: done")
		return
	}

	cfg := api.Config{Addr: *addr, DocsDir: *docsDir}
	server, err := api.NewServer(model, provider, &cfg)
	if err != nil {
		logger.Error("blens: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	logger.Info("blens: server listening", "addr", *addr, "health", "/healthz")
	fmt.Printf("Serving on %s\n", *addr)
	if err := http.ListenAndServe(*addr, server); err != nil {
		logger.Error("blens: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}

func defaultCatalogPath() string {
	return filepath.Join("data", "catalog.db")
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
