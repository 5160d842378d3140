package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimgate/internal/model"
	"github.com/ppiankov/claimgate/internal/server"
)

var (
	serveHost        string
	servePort        int
	serveIndexPath   string
	serveCorpusDir   string
	serveModel       string
	serveVisionModel string
	serveCacheOn     bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the claim processing HTTP service",
	Long: `Serve exposes the claim pipeline over HTTP:

  POST /process-claim-stream/       text claim, NDJSON stage stream
  POST /process-claim-file-stream/  image/PDF upload, NDJSON stage stream
  POST /api/process-claim/text      text claim, single JSON response
  POST /api/process-claim/file      image/PDF upload, single JSON response
  POST /api/ingest-document/        re-ingest the policy corpus

Example:
  claimgate serve --port 8000 --policy-index policy.db --corpus policies/`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "listen host")
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "listen port")
	serveCmd.Flags().StringVar(&serveIndexPath, "policy-index", "policy.db", "policy clause index path")
	serveCmd.Flags().StringVar(&serveCorpusDir, "corpus", "policies", "policy corpus directory")
	serveCmd.Flags().StringVar(&serveModel, "llm-model", "gpt-4o-mini", "LLM model for extraction and adjudication")
	serveCmd.Flags().StringVar(&serveVisionModel, "vision-model", "gpt-4o", "LLM model for image transcription")
	serveCmd.Flags().BoolVar(&serveCacheOn, "retrieval-cache", false, "cache policy retrieval results")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	cfg.Server.Host = serveHost
	cfg.Server.Port = servePort
	cfg.Policy.IndexPath = serveIndexPath
	cfg.Policy.CorpusDir = serveCorpusDir
	cfg.LLM.Model = serveModel
	cfg.LLM.VisionModel = serveVisionModel
	cfg.Cache.Enabled = serveCacheOn

	p, store, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(p, store, cfg.Server, cfg.Policy)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(os.Stderr, "[serve] listening on %s\n", addr)
	return httpServer.ListenAndServe()
}
