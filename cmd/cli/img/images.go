package img

import (
	"fmt"
	"github.com/ceotarot/ceotarot/internal/ai"
	"github.com/ceotarot/ceotarot/internal/catalog"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/logging"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"log/slog"
	"os"
	"strings"
)

var Group = &cobra.Group{
	ID:    "img",
	Title: "Image operations",
}

func init() {
	Generate.Flags().String("out", "./out.png", "path to generated image file")
	Generate.Flags().String("scenario", "", "generate the card of this scenario instead of a free prompt")
}

var Generate = &cobra.Command{
	Use:     "gen [prompt]",
	GroupID: "img",
	Short:   "Generate card image",
	Long: `Generates a portrait card image with DALL-E 3, either from a free prompt or from the
image prompt of a scenario in the embedded catalog. Requires OPENAI_API_KEY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			outPath    string
			scenarioID string
			prompt     string
			png        []byte
			err        error
		)
		if outPath, err = cmd.Flags().GetString("out"); err != nil {
			return errors.Wrap(err, "invalid out flag")
		}
		if scenarioID, err = cmd.Flags().GetString("scenario"); err != nil {
			return errors.Wrap(err, "invalid scenario flag")
		}

		switch {
		case scenarioID != "":
			c, loadErr := catalog.Default()
			if loadErr != nil {
				return errors.Wrap(loadErr, "load catalog")
			}
			s, getErr := c.Get(scenarioID)
			if getErr != nil {
				return errors.Wrap(getErr, "find scenario")
			}
			prompt = s.Tarot.ImagePrompt
		case len(args) > 0:
			prompt = strings.Join(args, " ")
		default:
			return errors.New("give a prompt or --scenario")
		}
		if prompt == "" {
			return errors.New("empty image prompt")
		}

		logger := logging.NewLogger(cmd.ErrOrStderr(), slog.LevelInfo)
		client := ai.NewClient(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_BASE_URL"), logger)
		if png, err = client.Generate(cmd.Context(), prompt); err != nil {
			return errors.Wrap(err, "generate image")
		}
		if err = os.WriteFile(outPath, png, 0o600); err != nil { //nolint:mnd // owner read write
			return errors.Wrap(err, "write image", slog.String("path", outPath))
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "The image was saved as %s\n", color.GreenString(outPath))
		return nil
	},
}
