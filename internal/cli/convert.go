package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"umlgate/internal/diagram"
	"umlgate/internal/gateway"
	"umlgate/internal/render"
)

// RenderOptions holds the flags shared by convert and export.
type RenderOptions struct {
	*RootOptions
	RendererURL string
	Timeout     time.Duration
	ImageFormat string
	OutPath     string
	Locale      string
}

func addRenderFlags(cmd *cobra.Command, opts *RenderOptions) {
	cmd.Flags().StringVar(&opts.RendererURL, "renderer", "http://localhost:8081", "base URL of the PlantUML server")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", render.DefaultTimeout, "render request timeout")
	cmd.Flags().StringVar(&opts.ImageFormat, "image-format", "png", "image format (png|svg)")
	cmd.Flags().StringVarP(&opts.OutPath, "out", "o", "", "write the rendered image to this path")
	cmd.Flags().StringVar(&opts.Locale, "locale", "en", "message locale (en|ja)")
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <source-file>",
		Short: "Render diagram source to an image",
		Long: `Render PlantUML source text through the configured PlantUML server.

Reads the source file ("-" for stdin), validates it, and renders it. The
image is written to --out when given; the outcome envelope is always
printed.

Example:
  umlgate convert diagram.puml --out diagram.png
  cat diagram.puml | umlgate convert - --image-format svg`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, cmd, args[0], false)
		},
	}

	addRenderFlags(cmd, opts)
	return cmd
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <source-file>",
		Short: "Render diagram source and save it as a download",
		Long: `Render PlantUML source text and write the image file.

Identical to convert except for the reported outcome; --out defaults to
the source file name with the image extension.

Example:
  umlgate export diagram.puml
  umlgate export diagram.puml --image-format svg --out /tmp/diagram.svg`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, cmd, args[0], true)
		},
	}

	addRenderFlags(cmd, opts)
	return cmd
}

func runRender(opts *RenderOptions, cmd *cobra.Command, sourcePath string, export bool) error {
	configureLogging(opts.Verbose)

	format, err := diagram.ParseImageFormat(opts.ImageFormat)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid image format", err)
	}

	text, err := readSource(sourcePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read source", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		Locale:    language.Make(opts.Locale),
	}

	renderer := render.NewClient(opts.RendererURL, &http.Client{Timeout: opts.Timeout})
	formatter.VerboseLog("rendering via %s", renderer.Endpoint())
	svc := gateway.NewService(renderer, slog.Default())

	req := gateway.ConvertRequest{SourceText: text, Format: format}
	run := svc.Convert
	if export {
		run = svc.Export
	}
	out := run(cmd.Context(), req)

	var data any
	if out.OK() {
		outPath := opts.OutPath
		if outPath == "" && export {
			outPath = defaultOutPath(sourcePath, format)
		}
		if outPath != "" {
			if err := os.WriteFile(outPath, out.Payload, 0o644); err != nil {
				return WrapExitError(ExitCommandError, "failed to write image", err)
			}
			data = map[string]any{"path": outPath, "bytes": len(out.Payload)}
		} else {
			data = map[string]any{"bytes": len(out.Payload)}
		}
	}

	if err := formatter.Outcome(out, data); err != nil {
		return WrapExitError(ExitCommandError, "failed to print outcome", err)
	}
	if !out.OK() {
		return NewExitError(ExitFailure, "render did not succeed")
	}
	return nil
}

// readSource reads the diagram source from a file, or stdin for "-".
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// defaultOutPath derives the export target from the source path, swapping
// the extension for the image format's.
func defaultOutPath(sourcePath string, format diagram.ImageFormat) string {
	if sourcePath == "-" {
		return "diagram." + format.Extension()
	}
	base := sourcePath
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' {
			break
		}
		if base[i] == '.' {
			base = base[:i]
			break
		}
	}
	return base + "." + format.Extension()
}
