package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"orbitview/internal/config"
	"orbitview/internal/domain"
	"orbitview/internal/loader"
	"orbitview/internal/scene"
)

var (
	layoutTheme  string
	layoutMobile bool
	layoutAspect float64
	layoutZoom   float64
)

// settle caps how long the framing animation is stepped before printing
const settle = 5 * time.Second

var layoutCmd = &cobra.Command{
	Use:   "layout <file>",
	Short: "Compute and print the layout for a seed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		nodes, err := loader.LoadFile(args[0])
		if err != nil {
			return err
		}

		frame, err := computeFrame(cfg, nodes)
		if err != nil {
			return err
		}
		printFrame(cmd.OutOrStdout(), domain.NewNodeSet(nodes), frame)
		return nil
	},
}

func init() {
	layoutCmd.Flags().StringVar(&layoutTheme, "theme", "", "theme to select before printing")
	layoutCmd.Flags().BoolVar(&layoutMobile, "mobile", false, "use the mobile profile")
	layoutCmd.Flags().Float64Var(&layoutAspect, "aspect", 16.0/9.0, "viewport aspect ratio")
	layoutCmd.Flags().Float64Var(&layoutZoom, "zoom", 1, "zoom factor")
}

// computeFrame runs a scene until the viewpoint comes to rest
func computeFrame(cfg *config.Config, nodes []domain.Node) (scene.Frame, error) {
	sc := scene.New(nodes, scene.Options{
		IsMobile:   layoutMobile,
		StayActive: !cfg.ToggleOff(),
		Aspect:     layoutAspect,
		Zoom:       layoutZoom,
		Profiles:   cfg.EffectiveProfile,
	})
	if layoutTheme != "" {
		if _, ok := sc.SelectTheme(layoutTheme); !ok {
			return scene.Frame{}, fmt.Errorf("%s is not a theme: %w", layoutTheme, domain.ErrNotFound)
		}
	}

	step := cfg.FrameInterval()
	frame := sc.Step(0)
	for elapsed := time.Duration(0); frame.Animating && elapsed < settle; elapsed += step {
		frame = sc.Step(step)
	}
	return frame, nil
}

func printFrame(w io.Writer, set *domain.NodeSet, frame scene.Frame) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	ringColor := map[domain.Ring]*color.Color{
		domain.RingHub:   color.New(color.FgYellow),
		domain.RingTheme: color.New(color.FgCyan),
		domain.RingChild: color.New(color.FgMagenta),
	}

	fmt.Fprintf(w, "%s %s\n", bold("Device:"), frame.Device)
	active := frame.Selection.Selection.ActiveThemeID
	if active == "" {
		active = "-"
	}
	fmt.Fprintf(w, "%s %s\n", bold("Active:"), active)
	fmt.Fprintf(w, "%s pos=%s look=%s\n\n", bold("Camera:"), vec(frame.Pose.Position), vec(frame.Pose.LookAt))

	for _, p := range frame.Positions {
		name := p.NodeID
		if n, ok := set.Get(p.NodeID); ok {
			name = n.Name
		}
		label := faint("hidden")
		if l, ok := frame.Label(p.NodeID); ok && l.Visible {
			label = color.GreenString("label %.2f", l.Style.FontSize)
		}

		indent := strings.Repeat("  ", p.Depth())
		c := ringColor[p.Ring]
		fmt.Fprintf(w, "%s%s %-24s %s scale=%.2f %s\n",
			indent, c.Sprintf("%-5s", p.Ring), name, vec(p.Position), p.Scale, label)
	}

	if len(frame.Cards) > 0 {
		fmt.Fprintf(w, "\n%s\n", bold("Cards:"))
		for _, n := range frame.Cards {
			fmt.Fprintf(w, "  %s %s\n", n.ID, faint(n.Name))
		}
	}
}

func vec(v v3.Vec) string {
	return fmt.Sprintf("(%6.2f %6.2f %6.2f)", v.X, v.Y, v.Z)
}
