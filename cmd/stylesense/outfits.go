package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shouni/gemini-style-kit/pkg/domain"
)

func newOutfitsCmd() *cobra.Command {
	var (
		referencePath string
		referenceURL  string
		outDir        string
		seed          int64
		flags         profileFlags
	)

	cmd := &cobra.Command{
		Use:   "outfits",
		Short: "Generate three outfit images and a recommendation from a reference photo",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := domain.OutfitRequest{
				ReferenceURL: referenceURL,
				Profile:      flags.profile(),
				Credential:   flags.credential(os.Getenv),
			}
			if referencePath != "" {
				data, err := os.ReadFile(referencePath)
				if err != nil {
					return fmt.Errorf("failed to read reference image: %w", err)
				}
				req.ReferenceImage = &domain.ImageData{Data: data, MimeType: http.DetectContentType(data)}
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			o, err := newOrchestrator(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
			defer cancel()

			res := o.GenerateOutfitImages(ctx, req)
			if err := writeLooks(outDir, res); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Recommendation)
			return err
		},
	}
	cmd.Flags().StringVarP(&referencePath, "reference", "r", "", "Path to a reference photo")
	cmd.Flags().StringVar(&referenceURL, "reference-url", "", "Public URL of a reference photo")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory to write look-N images to")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Base seed for reproducible images")
	flags.register(cmd)
	return cmd
}

// writeLooks は生成できた画像を look-N.<ext> として保存します。失敗した枠はログに残します。
func writeLooks(dir string, res domain.OutfitResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, slot := range res.Slots {
		if slot.Failed() {
			if slot.Caption != "" {
				log.Warn().Int("slot", slot.Index+1).Msg(slot.Caption)
			}
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("look-%d%s", slot.Index+1, extension(slot.Image.MimeType)))
		if err := os.WriteFile(path, slot.Image.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Info().Str("path", path).Str("caption", slot.Caption).Msg("look saved")
	}
	return nil
}

func extension(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
