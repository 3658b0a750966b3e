package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/toyz/locus/internal/service"
	"github.com/toyz/locus/internal/utils"
)

func (a *app) newBatchCommand() *cobra.Command {
	var classes []string

	cmd := &cobra.Command{
		Use:   "batch [manifest.yaml]",
		Short: "Locate every signature of a manifest or of compiled classes",
		Long: `Batch locates many signatures in one run. Signatures come from a YAML
manifest, from .class files matched by doublestar patterns, or both:

  signatures:
    - org.samples.Person#getAge(int)
  classes:
    - build/classes/java/main/**/*.class

Examples:
  locus batch signatures.yaml
  locus batch --classes 'build/classes/**/*.class'

Members javac generates without source, such as default constructors and
record accessors, are reported as Implicit and do not fail the run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest := &service.Manifest{}
			if len(args) == 1 {
				var err error
				if manifest, err = service.LoadManifest(args[0]); err != nil {
					return err
				}
			}
			patterns := classPatterns(manifest, classes)
			if len(manifest.Signatures) == 0 && len(patterns) == 0 {
				return fmt.Errorf("nothing to locate: pass a manifest or --classes")
			}

			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			compiled, err := svc.SignaturesFromClasses(patterns)
			if err != nil {
				return err
			}
			total := len(manifest.Signatures) + len(compiled)
			a.diagnostics.Verbose("%d signatures from manifest, %d from %d class patterns",
				len(manifest.Signatures), len(compiled), len(patterns))

			progress := a.progress(total)
			results := svc.LocateAll(cmd.Context(), manifest.Signatures, progress.offset(0))
			results = append(results, svc.LocateSignatures(cmd.Context(), compiled, progress.offset(len(manifest.Signatures)))...)
			progress.finish()

			return a.writeResults(results)
		},
	}

	cmd.Flags().StringArrayVar(&classes, "classes", nil, "doublestar pattern of .class files, repeatable")
	return cmd
}

// classPatterns joins manifest patterns and --classes flags into a fresh slice
func classPatterns(manifest *service.Manifest, flags []string) []string {
	patterns := make([]string, 0, len(manifest.Classes)+len(flags))
	patterns = append(patterns, manifest.Classes...)
	return append(patterns, flags...)
}

// batchProgress draws one bar across the manifest and class phases
type batchProgress struct {
	bar   *progressbar.ProgressBar
	total int
}

func (a *app) progress(total int) *batchProgress {
	if total < 2 || !a.diagnostics.Enabled(utils.DiagnosticInfo) {
		return &batchProgress{total: total}
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(a.errOut),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Locating[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(a.errOut)
		}),
	)
	return &batchProgress{bar: bar, total: total}
}

// offset returns a callback that reports done relative to base
func (p *batchProgress) offset(base int) service.Progress {
	if p.bar == nil {
		return nil
	}
	return func(done, _ int) {
		_ = p.bar.Set(base + done)
	}
}

func (p *batchProgress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
