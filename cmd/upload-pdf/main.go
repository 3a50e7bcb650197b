package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/budgetwise/budgetwise/internal/gcs"
	"github.com/budgetwise/budgetwise/internal/logger"
)

// upload-pdf pushes a local statement PDF into the GCS bucket without
// going through the API. Handy for seeding a bucket or re-uploading a
// statement by hand.
func main() {
	var (
		bucket = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket name (or set GCS_BUCKET)")
		object = flag.String("object", "", "GCS object name (defaults to the file name)")
		file   = flag.String("file", "", "Path to local PDF file (required)")
	)
	flag.Parse()

	log := logger.New()

	if *bucket == "" || *file == "" {
		log.Fatal().Msg("Usage: upload-pdf -bucket BUCKET -file /path/to/statement.pdf [-object NAME]")
	}
	if *object == "" {
		*object = filepath.Base(*file)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to open file")
	}
	defer f.Close()

	ctx := context.Background()
	client, err := gcs.NewClient(ctx, *bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer client.Close()

	uri, err := client.Upload(ctx, *object, f)
	if err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	log.Info().Str("gcs_uri", uri).Msg("Upload complete")
}
