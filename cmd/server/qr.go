package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"naulify_agent/internal/config"
	"naulify_agent/internal/qr"
)

func newQRCommand() *cobra.Command {
	var (
		output string
		size   int
		base   string
	)
	cmd := &cobra.Command{
		Use:   "qr <vehicle-id>",
		Short: "Write a vehicle's payment QR code as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if size == 0 {
				size = cfg.QR.Size
			}
			if base == "" {
				base = cfg.QR.BaseURL
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return qr.WritePNG(w, qr.PaymentURL(base, args[0]), size)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	cmd.Flags().IntVar(&size, "size", 0, "edge length in pixels (defaults to QR_SIZE)")
	cmd.Flags().StringVar(&base, "base", "", "payment link base URL (defaults to QR_BASE_URL)")
	return cmd
}
