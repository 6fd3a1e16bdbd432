package flow

import (
	"strconv"
	"time"

	"campuspass.io/application/repository"
	"campuspass.io/application/utils"
	"campuspass.io/application/verification"
	"campuspass.io/infrastructure/biometric"
	"campuspass.io/infrastructure/camera"
	"campuspass.io/infrastructure/database/repository/cache"
	"campuspass.io/infrastructure/imaging"
	"campuspass.io/infrastructure/notifier"
	"campuspass.io/infrastructure/ocr"
	"campuspass.io/infrastructure/photostore"
)

// Service is the process-wide verification flow controller. Initialise wires
// it to the live capture, OCR, face and storage adapters; tests build their
// own controllers against fakes instead.
var Service *verification.FlowController

func Initialise() {
	deviceID, _ := strconv.Atoi(utils.GetEnvOrDefault("CAMERA_DEVICE_ID", "0"))

	idConfig := verification.DefaultIDAcquisitionConfig()
	idConfig.Interval = utils.GetEnvDuration("ID_ACQUISITION_INTERVAL", idConfig.Interval)
	idConfig.MaxAttempts = utils.GetEnvInt("ID_ACQUISITION_MAX_ATTEMPTS", idConfig.MaxAttempts)

	faceConfig := verification.DefaultFaceVerificationConfig()
	faceConfig.DetectInterval = utils.GetEnvDuration("FACE_DETECT_INTERVAL", faceConfig.DetectInterval)
	faceConfig.CompareThrottle = utils.GetEnvDuration("FACE_COMPARE_THROTTLE", faceConfig.CompareThrottle)
	faceConfig.MatchThreshold = utils.GetEnvFloat("FACE_MATCH_THRESHOLD", faceConfig.MatchThreshold)
	faceConfig.Timeout = utils.GetEnvDuration("FACE_VERIFICATION_TIMEOUT", faceConfig.Timeout)

	Service = verification.NewFlowController(verification.FlowDependencies{
		Registry:    repository.StudentRepo(),
		Camera:      camera.NewWebcamStream(deviceID),
		OCR:         ocr.NewTesseractEngine(),
		Faces:       biometric.FaceService,
		Pre:         imaging.NewOCRPreprocessor(),
		Photos:      photostore.NewReferencePhotoStore(),
		Descriptors: cache.NewDescriptorCache(24 * time.Hour),
		Notifier:    &notifier.QueueNotifier{},
		IDConfig:    idConfig,
		FaceConfig:  faceConfig,
	})
}
