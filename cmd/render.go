package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/madrid-listings/internal/dashboard"
	"github.com/sells-group/madrid-listings/internal/filter"
	"github.com/sells-group/madrid-listings/internal/mapview"
)

var (
	renderRoomType          string
	renderNeighbourhoods    []string
	renderAllNeighbourhoods bool
	renderJSON              bool
	renderOutput            string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the map for one selection as HTML or JSON",
	Example: `  madrid-listings render --room-type "Entire home/apt" --neighbourhood Sol --neighbourhood Cortes > mapa.html
  madrid-listings render --all-neighbourhoods --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("render"); err != nil {
			return err
		}

		env := newAppEnv(cfg)
		defer env.Close()

		sel, err := renderSelection(cmd, env.Session)
		if err != nil {
			return err
		}

		m, _, err := env.Session.Render(cmd.Context(), sel)
		if err != nil {
			return err
		}
		zap.L().Info("map rendered",
			zap.String("room_type", sel.RoomType),
			zap.Strings("neighbourhoods", sel.Neighbourhoods),
			zap.Int("markers", m.MarkerCount()),
			zap.Int("skipped", m.Skipped),
		)

		w := cmd.OutOrStdout()
		if renderOutput != "" && renderOutput != "-" {
			f, err := os.Create(renderOutput)
			if err != nil {
				return eris.Wrap(err, "render: create output file")
			}
			defer f.Close() //nolint:errcheck
			w = f
		}
		return writeMap(w, m, renderJSON)
	},
}

func renderSelection(cmd *cobra.Command, s *dashboard.Session) (filter.Selection, error) {
	sel, err := s.DefaultSelection(cmd.Context())
	if err != nil {
		return filter.Selection{}, err
	}
	if renderRoomType != "" {
		sel.RoomType = renderRoomType
	}
	switch {
	case renderAllNeighbourhoods:
		opts, err := s.Options(cmd.Context())
		if err != nil {
			return filter.Selection{}, err
		}
		sel.Neighbourhoods = opts.Neighbourhoods
	case len(renderNeighbourhoods) > 0:
		sel.Neighbourhoods = renderNeighbourhoods
	}
	return sel, nil
}

func writeMap(w io.Writer, m *mapview.MapModel, asJSON bool) error {
	if !asJSON {
		return mapview.WriteHTML(w, m)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return eris.Wrap(err, "render: encode json")
	}
	return nil
}

func init() {
	renderCmd.Flags().StringVar(&renderRoomType, "room-type", "", "room type to show (default: first in the dataset)")
	renderCmd.Flags().StringArrayVar(&renderNeighbourhoods, "neighbourhood", nil, "neighbourhood to include (repeatable)")
	renderCmd.Flags().BoolVar(&renderAllNeighbourhoods, "all-neighbourhoods", false, "include every neighbourhood")
	renderCmd.Flags().BoolVar(&renderJSON, "json", false, "write the map model as JSON instead of HTML")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default stdout)")
	renderCmd.MarkFlagsMutuallyExclusive("neighbourhood", "all-neighbourhoods")
	rootCmd.AddCommand(renderCmd)
}
