package startup

import (
	"campuspass.io/application/services/flow"
	"campuspass.io/infrastructure/biometric"
	"campuspass.io/infrastructure/database"
	"campuspass.io/infrastructure/database/connection/datastore"
	"campuspass.io/infrastructure/logger"
)

// Used to start services such as loggers, databases, queues, etc.
func StartServices() {
	logger.InitializeLogger()
	database.SetUpDatabase()
	if err := biometric.FaceService.LoadModels(); err != nil {
		logger.Error("face recognition models failed to load, verification sessions will not start", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}
	flow.Initialise()
}

// Used to clean up after services that have been shutdown.
func CleanUpServices() {
	if flow.Service != nil {
		flow.Service.Stop()
	}
	biometric.FaceService.Close()
	datastore.CleanUp()
}
