package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"
	"love-surprise-backend/internal/handlers"
	"rsc.io/qr"
)

func qrCmd() *cobra.Command {
	var (
		baseURL string
		pngPath string
	)

	cmd := &cobra.Command{
		Use:   "qr [surprise-id]",
		Short: "Print the QR code of a surprise's share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid surprise id %q: %w", args[0], err)
			}
			if baseURL == "" {
				baseURL = os.Getenv("PUBLIC_BASE_URL")
			}
			if baseURL == "" {
				return fmt.Errorf("--base-url or PUBLIC_BASE_URL is required")
			}
			return writeQR(cmd.OutOrStdout(), handlers.ShareURL(baseURL, id), pngPath)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "public frontend URL (defaults to PUBLIC_BASE_URL)")
	cmd.Flags().StringVar(&pngPath, "png", "", "write a PNG to this path instead of drawing in the terminal")
	return cmd
}

func writeQR(out io.Writer, link, pngPath string) error {
	if pngPath == "" {
		fmt.Fprintln(out, link)
		qrterminal.GenerateHalfBlock(link, qrterminal.M, out)
		return nil
	}

	code, err := qr.Encode(link, qr.M)
	if err != nil {
		return fmt.Errorf("failed to encode QR code: %w", err)
	}
	code.Scale = 8
	if err := os.WriteFile(pngPath, code.PNG(), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s -> %s\n", link, pngPath)
	return nil
}
