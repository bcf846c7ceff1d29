package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"photobooth/internal/booth"
	"photobooth/internal/client"
	"photobooth/internal/collage"
	"photobooth/internal/compositor"
	"photobooth/internal/config"
	"photobooth/internal/device"
	"photobooth/internal/device/webcam"
	"photobooth/internal/filter"
	"photobooth/internal/logger"
	"photobooth/internal/share"
)

const patternDevice = "pattern"

// captureCmd runs one booth session against a camera
var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Take a photo or collage and save it to the server",
	Long: `Run the countdown, take one shot (or four for a collage), upload the
result and print a QR code for the share link.

Use --device pattern to capture a synthetic test image without a camera.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromEnv()
		flags := cmd.Flags()
		out := cmd.OutOrStdout()
		log := logger.NewWriter(cmd.ErrOrStderr())

		modeFlag, _ := flags.GetString("mode")
		mode, err := booth.ParseMode(modeFlag)
		if err != nil {
			return err
		}
		layoutFlag, _ := flags.GetString("layout")
		layout, err := collage.ParseLayout(layoutFlag)
		if err != nil {
			return err
		}

		if flags.Changed("device") {
			cfg.CameraDevice, _ = flags.GetString("device")
		}
		if flags.Changed("server") {
			cfg.ServerURL, _ = flags.GetString("server")
		}
		if flags.Changed("countdown") {
			cfg.CountdownSeconds, _ = flags.GetInt("countdown")
		}
		pause := time.Duration(cfg.ShotPauseMillis) * time.Millisecond
		if flags.Changed("pause") {
			pause, _ = flags.GetDuration("pause")
		}
		tick, _ := flags.GetDuration("tick")

		filters := filter.NewRegistry()
		if cfg.FiltersFile != "" {
			if err := filters.LoadFile(cfg.FiltersFile); err != nil {
				return err
			}
		}

		var source device.Source
		if cfg.CameraDevice == patternDevice {
			source = device.NewPattern(640, 480)
		} else {
			cam, err := webcam.Open(cfg.CameraDevice)
			if err != nil {
				log.Warning("Camera %s: %v", cfg.CameraDevice, err)
			} else {
				defer cam.Close()
				source = cam
			}
		}

		opts := booth.Options{
			Source:     source,
			Filters:    filters,
			Compositor: compositor.New(cfg.JPEGQuality),
			Notifier:   booth.TextNotifier{W: out},
			Logger:     log,
			Mode:       mode,
			Layout:     layout,
			Countdown:  booth.Countdown{Seconds: cfg.CountdownSeconds, Tick: tick},
			ShotPause:  pause,
		}

		noSave, _ := flags.GetBool("no-save")
		if noSave {
			opts.Presenter = share.New(nil, log)
		} else {
			c, err := client.New(client.Config{BaseURL: cfg.ServerURL, Logger: log})
			if err != nil {
				return err
			}
			opts.Saver = c
			opts.Presenter = share.New(c, log)
		}

		b := booth.New(opts)
		filterKey, _ := flags.GetString("filter")
		effect := b.SetFilter(filterKey)
		fmt.Fprintf(out, "Filter: %s (%s)\n", effect.Key, effect.Preview)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		result, err := b.Capture(ctx)
		if err != nil {
			return err
		}

		if path, _ := flags.GetString("out"); path != "" {
			if err := os.WriteFile(path, result.Composed.Data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(out, "💾 Saved %s\n", path)
		}

		return printPresentation(cmd, result)
	},
}

func printPresentation(cmd *cobra.Command, result *booth.Result) error {
	out := cmd.OutOrStdout()
	pres := result.Presentation

	if result.Saved != nil {
		fmt.Fprintf(out, "✅ Saved %s #%d\n", result.Saved.Kind, result.Saved.ID)
	}

	switch pres.Kind {
	case share.KindQR:
		fmt.Fprint(out, pres.Terminal)
		fmt.Fprintf(out, "🔗 %s\n", pres.Text)
		if path, _ := cmd.Flags().GetString("qr-png"); path != "" {
			if err := os.WriteFile(path, pres.PNG, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
	case share.KindDownload:
		fmt.Fprintf(out, "📥 %s (%s)\n", pres.Text, pres.Filename)
	default:
		fmt.Fprintln(out, pres.Text)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().StringP("mode", "m", "single", "Capture mode: single or collage")
	captureCmd.Flags().StringP("layout", "l", "grid", "Collage layout: grid or strip")
	captureCmd.Flags().StringP("filter", "f", "none", "Filter preset key")
	captureCmd.Flags().String("device", "0", "Camera index, path or URL, or \"pattern\" (CAMERA_DEVICE)")
	captureCmd.Flags().String("server", "", "Photobooth server URL (SERVER_URL)")
	captureCmd.Flags().Int("countdown", 3, "Countdown seconds (COUNTDOWN_SECONDS)")
	captureCmd.Flags().Duration("pause", time.Second, "Pause between collage shots (SHOT_PAUSE_MS)")
	captureCmd.Flags().Duration("tick", time.Second, "Length of one countdown step")
	captureCmd.Flags().StringP("out", "o", "", "Also write the JPEG to this file")
	captureCmd.Flags().String("qr-png", "", "Write the share QR code to this PNG file")
	captureCmd.Flags().Bool("no-save", false, "Skip the upload and offer a download instead")
}
