package repository

import (
	"os"
	"sync"

	"campuspass.io/infrastructure/logger"
)

var studentOnce = sync.Once{}

var studentRegistry StudentRegistry

// StudentRepo returns the process-wide student registry. Backed by mongo
// unless STUDENT_REGISTRY_FILE points at a JSON roster, which kiosks in
// offline deployments use instead.
func StudentRepo() StudentRegistry {
	studentOnce.Do(func() {
		if path := os.Getenv("STUDENT_REGISTRY_FILE"); path != "" {
			memRegistry, err := LoadMemoryStudentRegistry(path)
			if err == nil {
				studentRegistry = memRegistry
				return
			}
			logger.Error("failed to load student registry file, falling back to mongo", logger.LoggerOptions{
				Key:  "error",
				Data: err,
			}, logger.LoggerOptions{
				Key:  "path",
				Data: path,
			})
		}
		studentRegistry = NewMongoStudentRegistry()
	})
	return studentRegistry
}
