package alert

import (
	"go.uber.org/zap"
)

// ZapChannel writes alerts to the service logger.
type ZapChannel struct {
	log  *zap.Logger
	name string
}

// NewZapChannel creates a channel backed by the given logger.
func NewZapChannel(name string, log *zap.Logger) *ZapChannel {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapChannel{log: log, name: name}
}

// Send logs the alert at a level matching its severity.
func (c *ZapChannel) Send(a Alert) error {
	fields := make([]zap.Field, 0, len(a.Fields)+2)
	fields = append(fields, zap.String("level", a.Level), zap.Time("ts", a.Timestamp))
	for k, v := range a.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	switch a.Level {
	case "CRITICAL":
		c.log.Error(a.Message, fields...)
	case "WARNING":
		c.log.Warn(a.Message, fields...)
	default:
		c.log.Info(a.Message, fields...)
	}
	return nil
}

// Name returns the channel name.
func (c *ZapChannel) Name() string {
	return c.name
}
