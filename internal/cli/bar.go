package cli

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/joshuadavidthomas/stravabar/internal/config"
	"github.com/joshuadavidthomas/stravabar/internal/display"
	"github.com/joshuadavidthomas/stravabar/internal/fetch"
	"github.com/joshuadavidthomas/stravabar/internal/format"
	"github.com/joshuadavidthomas/stravabar/internal/logging"
	"github.com/joshuadavidthomas/stravabar/internal/models"
	refreshctl "github.com/joshuadavidthomas/stravabar/internal/refresh"
	"github.com/joshuadavidthomas/stravabar/internal/schedule"
)

var barCmd = &cobra.Command{
	Use:   "bar",
	Short: "Run the interactive bar (the default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBar(cmd.Context())
	},
}

// lazyProvider builds the Strava client on first use and retries the
// build on every fetch until it succeeds, so a missing token shows up as
// an ordinary failed refresh and `stravabar auth` takes effect without a
// restart.
type lazyProvider struct {
	mu sync.Mutex
	p  fetch.Provider
}

func (l *lazyProvider) Fetch(ctx context.Context) (*models.ActivitySnapshot, error) {
	l.mu.Lock()
	if l.p == nil {
		p, err := newProvider(config.Get())
		if err != nil {
			l.mu.Unlock()
			return nil, err
		}
		l.p = p
	}
	p := l.p
	l.mu.Unlock()
	return p.Fetch(ctx)
}

// newBar wires the controller and the widget. The controller is seeded
// from the cache and its first cycle is scheduled.
func newBar(ctx context.Context, cfg config.Config, host *display.LoopHost, p fetch.Provider) *display.Widget {
	ctrl := refreshctl.New(host, fetch.Launcher(ctx, fetch.WithCache(p, config.FileCache{})), refreshctl.Config{
		StartupDelay:    cfg.Widget.Startup(),
		RefreshInterval: cfg.Widget.Refresh(),
		PollInterval:    cfg.Widget.Poll(),
	})
	ctrl.Seed(config.LoadCachedSnapshot())
	ctrl.Start()

	return display.NewWidget(ctrl, host, display.WidgetOptions{
		Template:      cfg.Widget.Text,
		DetailTimeout: cfg.Widget.Detail(),
		Foreground:    cfg.Widget.Foreground,
	}, logging.FromContext(ctx))
}

func runBar(ctx context.Context) error {
	cfg := config.Get()

	logger, closer, err := newBarLogger()
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	if err := format.Validate(cfg.Widget.Text); err != nil {
		logging.FromContext(ctx).Warn("widget text is invalid, the bar will show "+format.Fallback, "err", err)
	}
	ctx = logging.WithLogger(ctx, logger)
	logger.Info("starting bar", "sport", cfg.Strava.Sport, "refresh_interval", cfg.Widget.Refresh())

	host := display.NewLoopHost(schedule.New(schedule.SystemClock{}), logger)
	w := newBar(ctx, cfg, host, &lazyProvider{})

	prog := tea.NewProgram(w, tea.WithContext(ctx), tea.WithMouseCellMotion())
	if _, err := prog.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
