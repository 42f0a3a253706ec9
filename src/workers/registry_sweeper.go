package workers

import (
	"time"

	"attestation-service/pkg/logger"
	"attestation-service/pkg/rabbitmq"
	"attestation-service/src/nullifier"

	"github.com/robfig/cron"
)

const registrySweeperServiceName = "RegistrySweeper"

// RegistrySweeper periodically deletes expired nullifier records. Expiry is
// already enforced logically on every lookup; the sweep only keeps the table
// from growing without bound.
type RegistrySweeper struct {
	Registry nullifier.Registry
	Schedule string
}

func NewRegistrySweeper(registry nullifier.Registry, schedule string) rabbitmq.WorkerService {
	if schedule == "" {
		schedule = "@hourly"
	}
	return &RegistrySweeper{
		Registry: registry,
		Schedule: schedule,
	}
}

func (rs *RegistrySweeper) GetServiceName() string {
	return registrySweeperServiceName
}

func (rs *RegistrySweeper) StartService() {
	sweeperLogger := logger.Default()

	c := cron.New()
	err := c.AddFunc(rs.Schedule, func() {
		purged, err := rs.Registry.PurgeExpired(time.Now().Unix())
		if err != nil {
			sweeperLogger.Errorf(err, "Failed to purge expired nullifier records")
			return
		}
		if purged > 0 {
			sweeperLogger.Infof("Purged %d expired nullifier records", purged)
		}
	})
	if err != nil {
		sweeperLogger.Errorf(err, "Failed to schedule registry sweep: %s", rs.Schedule)
		return
	}

	c.Start()
}
