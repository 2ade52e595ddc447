package board

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/penwyp/go-hackathon-board/internal/config"
	"github.com/penwyp/go-hackathon-board/internal/core/constants"
	"github.com/penwyp/go-hackathon-board/internal/core/model"
)

// BoardConfig contains configuration for the display command
type BoardConfig struct {
	// Display settings
	View          string
	WrapPolicy    string
	EventTitle    string
	ImportantText string
	ShowSecondary bool
	Color         bool

	// Refresh settings
	RefreshRate time.Duration
	ResyncCron  string // empty disables periodic reloads

	// Feed topic for change notifications
	Topic string
}

// FromConfig copies the display-related settings out of the application config.
func FromConfig(cfg *config.Config) *BoardConfig {
	return &BoardConfig{
		View:          cfg.Display.View,
		WrapPolicy:    cfg.Display.WrapPolicy,
		EventTitle:    cfg.Display.EventTitle,
		ImportantText: cfg.Display.ImportantText,
		ShowSecondary: cfg.Display.ShowSecondary,
		Color:         true,
		RefreshRate:   cfg.Display.RefreshRate,
		ResyncCron:    cfg.Feed.ResyncCron,
		Topic:         cfg.Feed.Topic,
	}
}

// Validate fills defaults and checks the configuration
func (c *BoardConfig) Validate() error {
	if c.EventTitle == "" {
		c.EventTitle = "Hackathon"
	}
	if c.RefreshRate == 0 {
		c.RefreshRate = constants.TickInterval
	}
	if c.RefreshRate < 50*time.Millisecond || c.RefreshRate > 10*time.Second {
		return fmt.Errorf("refresh rate must be between 50ms and 10s (got %s)", c.RefreshRate)
	}
	if c.Topic == "" {
		c.Topic = constants.DefaultTopic
	}
	if _, err := model.ParseViewMode(c.View); err != nil {
		return err
	}
	if _, err := model.ParseWrapPolicy(c.WrapPolicy); err != nil {
		return err
	}
	if c.ResyncCron != "" {
		if _, err := cron.ParseStandard(c.ResyncCron); err != nil {
			return fmt.Errorf("invalid resync schedule %q: %w", c.ResyncCron, err)
		}
	}
	return nil
}

func (c *BoardConfig) viewMode() model.ViewMode {
	v, _ := model.ParseViewMode(c.View)
	return v
}

func (c *BoardConfig) wrapPolicy() model.WrapPolicy {
	p, _ := model.ParseWrapPolicy(c.WrapPolicy)
	return p
}
