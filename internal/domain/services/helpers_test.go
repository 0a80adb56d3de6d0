package services_test

import (
	"chatguard-lab/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "console"})
}
