package backup

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/bium/internal/logger"
	"github.com/julianstephens/bium/internal/models"
)

// Schedule runs a backup of source() on every tick of spec, a standard
// five-field cron expression or a descriptor such as "@daily". The returned
// cron is already started; callers Stop it on shutdown.
func (m *Manager) Schedule(spec string, source func() models.Snapshot) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		path, err := m.CreateBackup(source())
		if err != nil {
			logger.Error("Scheduled backup failed", "error", err)
			return
		}
		logger.Info("Scheduled backup created", "path", path)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
