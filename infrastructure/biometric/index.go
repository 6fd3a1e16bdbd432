package biometric

import (
	"os"
)

func init() {
	FaceService = NewDlibFaceEngine(os.Getenv("FACE_MODELS_DIR"))
}

var FaceService *DlibFaceEngine
